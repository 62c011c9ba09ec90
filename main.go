package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/Yassin1-prog/Bplus-Visualization/btree"
	"github.com/Yassin1-prog/Bplus-Visualization/cli"
	"github.com/sirupsen/logrus"
)

var (
	order, seedNumRecords, maxKey *int
	shouldSeed, verbose, check    *bool
)

func main() {
	setupFlags()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *verbose {
		log.SetLevel(logrus.DebugLevel)
	}

	opts := []btree.Option{
		btree.WithLogger(log),
		btree.WithInvariantChecks(*check),
	}
	tree, err := btree.New[int64](*order, opts...)
	if err != nil {
		log.WithError(err).Fatal("cannot create tree")
	}

	if *shouldSeed {
		added, err := cli.Seed(tree, *seedNumRecords, *maxKey)
		if err != nil {
			log.WithError(err).Fatal("cannot seed tree")
		}
		log.WithField("keys", added).Info("seeded tree")
	}

	scanner := bufio.NewScanner(os.Stdin)
	demo := cli.NewCli(scanner, os.Stdout, tree, log, opts...)
	demo.Start()
}

func setupFlags() {
	order = flag.Int("order", 4, "Max number of children of an internal node (at least 3).")
	shouldSeed = flag.Bool("seed", false, "Seed the tree with random keys created with go-faker.")
	seedNumRecords = flag.Int("records", 20, "Amount of keys to seed the tree with upon startup.")
	maxKey = flag.Int("max-key", cli.DefaultMaxKey, "Largest key drawn when seeding.")
	verbose = flag.Bool("v", false, "Log every split, merge and redistribution.")
	check = flag.Bool("check", false, "Verify every tree invariant after each mutation.")
	flag.Usage = func() {
		fmt.Println("\nB+ Tree CLI\n\nArguments:")
		flag.PrintDefaults()
	}
	flag.Parse()
}
