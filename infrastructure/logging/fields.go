package logging

import (
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

// Field constructors for planning engine logging.

// Domain adds a domain name field.
func Domain(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("domain", name)
	}
}

// DomainVersion adds the operator table version.
func DomainVersion(v string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("domain_version", v)
	}
}

// Operator adds an operator field.
func Operator(op string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("operator", op)
	}
}

// Goal adds a goal condition field.
func Goal(c planning.Condition) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("goal", c.String())
	}
}

// Goals adds the number of requested goals.
func Goals(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("goals", n)
	}
}

// PlanID adds a plan ID field.
func PlanID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("plan_id", id)
	}
}

// Steps adds a plan length field.
func Steps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("steps", n)
	}
}

// Phase adds a planner phase field.
func Phase(p planning.Phase) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("phase", string(p))
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

// ErrorField adds an error field.
func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// ErrorClass adds the error class and kind of a planning error.
func ErrorClass(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Str("error_class", string(planning.Classify(err))).Str("error_kind", planning.Kind(err))
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

// Path adds a file path field.
func Path(p string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("path", p)
	}
}

// Str adds a string field with custom key.
func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}
