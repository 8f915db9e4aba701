// Package gds describes the remote graph-analytics engine as a set of named
// procedures. Callers build Call values; a Session executes them against a
// concrete engine (Bolt via neo4jdb, or the in-memory mock in tests).
package gds

import "context"

type Call struct {
	// Procedure is the fully qualified remote name, e.g. "gds.graph.project".
	Procedure string
	// Args are passed positionally.
	Args []any
	// Yield lists the fields to return. Empty yields nothing (records are consumed).
	Yield []string
	// Function renders the call as `RETURN <proc>(args) AS <Yield[0]>` instead of CALL.
	Function bool
}

func Procedure(name string, args ...any) Call {
	return Call{Procedure: name, Args: args}
}

func Function(name string, as string, args ...any) Call {
	return Call{Procedure: name, Args: args, Yield: []string{as}, Function: true}
}

func (c Call) Yielding(fields ...string) Call {
	c.Yield = append([]string(nil), fields...)
	return c
}

type Record map[string]any

// Session is an EngineHandle: acquired per job, used sequentially, closed when the job ends.
type Session interface {
	Call(ctx context.Context, c Call) ([]Record, error)
	Close(ctx context.Context) error
}

type Connector interface {
	Open(ctx context.Context) (Session, error)
}

// ConnectorFunc adapts a function to Connector.
type ConnectorFunc func(ctx context.Context) (Session, error)

func (f ConnectorFunc) Open(ctx context.Context) (Session, error) { return f(ctx) }
