package gds

import (
	"errors"
	"fmt"
)

var (
	// ErrProcedureNotFound marks a call to a procedure the engine does not have registered.
	ErrProcedureNotFound = errors.New("gds: procedure not registered")
	// ErrEngineUnavailable marks transport-level failures reaching the engine.
	ErrEngineUnavailable = errors.New("gds: engine unavailable")
)

type ProcedureErrorKind string

const (
	ProcedureErrorNotFound    ProcedureErrorKind = "procedure_not_found"
	ProcedureErrorUnavailable ProcedureErrorKind = "engine_unavailable"
	ProcedureErrorFailed      ProcedureErrorKind = "procedure_failed"
)

type ProcedureError struct {
	Kind      ProcedureErrorKind
	Procedure string
	// Code is the engine status code when one was reported.
	Code    string
	Message string
	Cause   error
}

func (e *ProcedureError) Error() string {
	if e == nil {
		return "gds procedure failed"
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("gds procedure %s failed (kind=%s code=%s): %s", e.Procedure, e.Kind, e.Code, msg)
	}
	return fmt.Sprintf("gds procedure %s failed (kind=%s): %s", e.Procedure, e.Kind, msg)
}

func (e *ProcedureError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *ProcedureError) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrProcedureNotFound:
		return e.Kind == ProcedureErrorNotFound
	case ErrEngineUnavailable:
		return e.Kind == ProcedureErrorUnavailable
	}
	return false
}

func NotFound(procedure string) error {
	return &ProcedureError{
		Kind:      ProcedureErrorNotFound,
		Procedure: procedure,
		Message:   "there is no procedure with the name `" + procedure + "` registered",
	}
}
