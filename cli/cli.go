package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Yassin1-prog/Bplus-Visualization/btree"
	"github.com/Yassin1-prog/Bplus-Visualization/encoder"
	"github.com/Yassin1-prog/Bplus-Visualization/visualizer"
	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/go-faker/faker/v4"
	"github.com/sirupsen/logrus"
)

var (
	promptColor = color.New(color.FgBlue, color.Bold)
	okColor     = color.New(color.FgGreen)
	errColor    = color.New(color.FgRed)
)

type Cli struct {
	scanner    *bufio.Scanner
	out        io.Writer
	tree       *btree.Tree[int64]
	visualizer *visualizer.Visualizer[int64]
	encoder    *encoder.Encoder
	treeOpts   []btree.Option
	log        logrus.FieldLogger
}

// NewCli wires a REPL around t. opts are reused whenever ORDER replaces the tree.
func NewCli(s *bufio.Scanner, out io.Writer, t *btree.Tree[int64], log logrus.FieldLogger, opts ...btree.Option) *Cli {
	c := &Cli{
		scanner:  s,
		out:      out,
		encoder:  encoder.NewEncoder(),
		treeOpts: opts,
		log:      log,
	}
	c.setTree(t)
	return c
}

func (c *Cli) setTree(t *btree.Tree[int64]) {
	c.tree = t
	c.visualizer = &visualizer.Visualizer[int64]{Tree: t}
}

// Start reads commands until EXIT or end of input.
func (c *Cli) Start() {
	c.printHelp()
	c.printPrompt()
	for c.scanner.Scan() {
		if !c.processInput(c.scanner.Text()) {
			return
		}
		c.printPrompt()
	}
	if err := c.scanner.Err(); err != nil {
		c.log.WithError(err).Error("reading input")
	}
}

func (c *Cli) printHelp() {
	fmt.Fprintln(c.out, `
B+ Tree CLI

Available Commands:
  INSERT <key>...  Insert one or more integer keys
  DEL <key>...     Delete one or more keys
  FIND <key>       Report whether a key is present
  SHOW             Draw the tree level by level
  STATS            Print order, key count, height and node count
  ORDER <n>        Start over with an empty tree of order n (n >= 3)
  SEED <n>         Insert n random keys
  EXPORT <path>    Write the encoded tree snapshot to a file
  HELP             Print this message
  EXIT             Terminate this session`)
}

func (c *Cli) printPrompt() {
	promptColor.Fprint(c.out, "> ")
}

func (c *Cli) printTree() {
	fmt.Fprintln(c.out, c.visualizer.Visualize())
}

// processInput runs one command line and reports whether the session goes on.
func (c *Cli) processInput(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 1 {
		return true
	}
	command := strings.ToLower(fields[0])
	switch command {
	default:
		errColor.Fprintf(c.out, "Unknown command \"%s\"\n", command)
	case "insert", "set":
		c.processInsertCommand(fields[1:])
	case "del", "delete":
		c.processDeleteCommand(fields[1:])
	case "find", "get":
		c.processFindCommand(fields[1:])
	case "show":
		c.printTree()
	case "stats":
		c.processStatsCommand()
	case "order":
		c.processOrderCommand(fields[1:])
	case "seed":
		c.processSeedCommand(fields[1:])
	case "export":
		c.processExportCommand(fields[1:])
	case "help":
		c.printHelp()
	case "exit", "quit":
		return false
	}
	return true
}

func parseKeys(args []string) ([]int64, error) {
	keys := make([]int64, 0, len(args))
	for _, a := range args {
		k, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid key %q", a)
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func (c *Cli) processInsertCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: INSERT <key>...")
		return
	}
	keys, err := parseKeys(args)
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	for _, k := range keys {
		if !c.tree.Insert(k) {
			fmt.Fprintf(c.out, "Key %d already present.\n", k)
		}
	}
	c.printTree()
}

func (c *Cli) processDeleteCommand(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.out, "Usage: DEL <key>...")
		return
	}
	keys, err := parseKeys(args)
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	for _, k := range keys {
		if !c.tree.Delete(k) {
			fmt.Fprintf(c.out, "Key %d not found.\n", k)
		}
	}
	c.printTree()
}

func (c *Cli) processFindCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: FIND <key>")
		return
	}
	keys, err := parseKeys(args)
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	if c.tree.Find(keys[0]) {
		okColor.Fprintf(c.out, "Key %d found.\n", keys[0])
		return
	}
	fmt.Fprintf(c.out, "Key %d not found.\n", keys[0])
}

func (c *Cli) processStatsCommand() {
	fmt.Fprintf(c.out, "order=%d keys=%d height=%d nodes=%d\n",
		c.tree.Order(), c.tree.Len(), c.tree.Height(), c.tree.Nodes())
}

func (c *Cli) processOrderCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: ORDER <n>")
		return
	}
	order, err := strconv.Atoi(args[0])
	if err != nil {
		errColor.Fprintf(c.out, "invalid order %q\n", args[0])
		return
	}
	t, err := btree.New[int64](order, c.treeOpts...)
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	c.setTree(t)
	c.log.WithField("order", order).Info("tree reset")
	c.printTree()
}

func (c *Cli) processSeedCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: SEED <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		errColor.Fprintf(c.out, "invalid record count %q\n", args[0])
		return
	}
	added, err := Seed(c.tree, n, DefaultMaxKey)
	if err != nil {
		errColor.Fprintln(c.out, err)
		return
	}
	fmt.Fprintf(c.out, "Inserted %d new keys.\n", added)
	c.printTree()
}

func (c *Cli) processExportCommand(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(c.out, "Usage: EXPORT <path>")
		return
	}
	data := c.encoder.Encode(c.tree.Snapshot())
	if err := os.WriteFile(args[0], data, 0o644); err != nil {
		errColor.Fprintln(c.out, errors.Wrap(err, "export snapshot"))
		return
	}
	fmt.Fprintf(c.out, "Wrote %d bytes to %s.\n", len(data), args[0])
}

// DefaultMaxKey bounds the keys drawn by SEED.
const DefaultMaxKey = 999

// Seed inserts records distinct random keys from [1, maxKey] and returns how
// many of them were not in the tree yet.
func Seed(t *btree.Tree[int64], records, maxKey int) (int, error) {
	if records > maxKey {
		return 0, errors.Newf("cannot draw %d distinct keys from [1, %d]", records, maxKey)
	}
	keys, err := faker.RandomInt(1, maxKey, records)
	if err != nil {
		return 0, errors.Wrap(err, "generate keys")
	}
	added := 0
	for _, k := range keys {
		if t.Insert(int64(k)) {
			added++
		}
	}
	return added, nil
}
