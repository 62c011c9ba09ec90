package btree

import (
	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

const minOrder = 3

// ErrInvalidOrder is returned by New when the order cannot produce sane occupancy bounds.
var ErrInvalidOrder = errors.New("invalid order")

/*
bounds are derived once from the order and shared by every node of a tree.
order is the max number of children an internal node may hold.
Leaves are bounded by values, internal nodes by children.
*/
type bounds struct {
	order       int
	minChildren int // ceil(order/2)
	maxChildren int // order
	minValues   int // ceil((order-1)/2)
	maxValues   int // order-1
}

func newBounds(order int) bounds {
	return bounds{
		order:       order,
		minChildren: (order + 1) / 2,
		maxChildren: order,
		minValues:   order / 2,
		maxValues:   order - 1,
	}
}

// Option configures a Tree.
type Option func(*options)

type options struct {
	logger logrus.FieldLogger
	check  bool
}

// WithLogger sets the logger that receives structural events (splits, merges,
// redistributions, root changes) at debug level.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithInvariantChecks makes the tree run Verify after every mutation and
// panic on the first violation.
func WithInvariantChecks(enabled bool) Option {
	return func(o *options) {
		o.check = enabled
	}
}
