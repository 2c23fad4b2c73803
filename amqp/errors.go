package amqp

import goamqp "github.com/Azure/go-amqp"

// Error condition symbols the bridge emits. These are custom, bridge-owned
// symbols, not part of the AMQP "amqp:" condition namespace. go-amqp's
// ErrCond is just a named string type, so it's a natural fit for
// both the standard conditions it predefines and these bridge-specific
// ones.
const (
	ConditionNoGroupID            goamqp.ErrCond = "no-groupid"
	ConditionWrongPartitionFilter goamqp.ErrCond = "wrong-partition-filter"
	ConditionWrongOffsetFilter    goamqp.ErrCond = "wrong-offset-filter"
	ConditionNoPartitionFilter    goamqp.ErrCond = "no-partition-filter"
	ConditionWrongFilter          goamqp.ErrCond = "wrong-filter"
	ConditionPartitionsNotExist   goamqp.ErrCond = "partitions-not-exists"
)

// NewError builds the *goamqp.Error attached to a closed sender.
func NewError(condition goamqp.ErrCond, description string) *goamqp.Error {
	return &goamqp.Error{Condition: condition, Description: description}
}
