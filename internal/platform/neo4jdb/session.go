package neo4jdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/yungbote/neurobridge-graph-analytics/internal/gds"
	"github.com/yungbote/neurobridge-graph-analytics/internal/platform/logger"
)

const (
	codeProcedureNotFound = "Neo.ClientError.Procedure.ProcedureNotFound"
	codeFunctionNotFound  = "Neo.ClientError.Statement.SyntaxError"
)

// Session runs gds.Call values over a single Bolt session.
type Session struct {
	inner neo4j.SessionWithContext
	log   *logger.Logger
}

func (s *Session) Call(ctx context.Context, c gds.Call) ([]gds.Record, error) {
	cypher, params, err := Render(c)
	if err != nil {
		return nil, err
	}
	res, err := s.inner.Run(ctx, cypher, params)
	if err != nil {
		return nil, classify(c, err)
	}
	if len(c.Yield) == 0 {
		if _, err := res.Consume(ctx); err != nil {
			return nil, classify(c, err)
		}
		return nil, nil
	}
	recs, err := res.Collect(ctx)
	if err != nil {
		return nil, classify(c, err)
	}
	out := make([]gds.Record, 0, len(recs))
	for _, r := range recs {
		out = append(out, gds.Record(r.AsMap()))
	}
	return out, nil
}

func (s *Session) Close(ctx context.Context) error {
	if s == nil || s.inner == nil {
		return nil
	}
	return s.inner.Close(ctx)
}

// Render turns a Call into Cypher with positional parameters $p0..$pN.
func Render(c gds.Call) (string, map[string]any, error) {
	name := strings.TrimSpace(c.Procedure)
	if !validName(name) {
		return "", nil, fmt.Errorf("neo4jdb: invalid procedure name %q", c.Procedure)
	}
	for _, y := range c.Yield {
		if !validIdent(y) {
			return "", nil, fmt.Errorf("neo4jdb: invalid yield field %q", y)
		}
	}
	params := make(map[string]any, len(c.Args))
	placeholders := make([]string, 0, len(c.Args))
	for i, a := range c.Args {
		key := fmt.Sprintf("p%d", i)
		params[key] = a
		placeholders = append(placeholders, "$"+key)
	}
	invocation := name + "(" + strings.Join(placeholders, ", ") + ")"

	if c.Function {
		as := "value"
		if len(c.Yield) > 0 {
			as = c.Yield[0]
		}
		return "RETURN " + invocation + " AS " + as, params, nil
	}
	if len(c.Yield) == 0 {
		return "CALL " + invocation, params, nil
	}
	fields := strings.Join(c.Yield, ", ")
	return "CALL " + invocation + " YIELD " + fields + " RETURN " + fields, params, nil
}

func classify(c gds.Call, err error) error {
	if err == nil {
		return nil
	}
	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		kind := gds.ProcedureErrorFailed
		switch {
		case neoErr.Code == codeProcedureNotFound:
			kind = gds.ProcedureErrorNotFound
		case c.Function && neoErr.Code == codeFunctionNotFound && strings.Contains(strings.ToLower(neoErr.Msg), "unknown function"):
			kind = gds.ProcedureErrorNotFound
		}
		return &gds.ProcedureError{
			Kind:      kind,
			Procedure: c.Procedure,
			Code:      neoErr.Code,
			Message:   neoErr.Msg,
			Cause:     err,
		}
	}
	if neo4j.IsConnectivityError(err) {
		return &gds.ProcedureError{
			Kind:      gds.ProcedureErrorUnavailable,
			Procedure: c.Procedure,
			Cause:     err,
		}
	}
	return &gds.ProcedureError{
		Kind:      gds.ProcedureErrorFailed,
		Procedure: c.Procedure,
		Cause:     err,
	}
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if !validIdent(part) {
			return false
		}
	}
	return true
}

func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
