// Davrep - Replicated WebDAV Client
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/davrep

package webdav

import "net/http"

// Operation names a logical client operation.
type Operation string

// Supported operations.
const (
	OpExists      Operation = "EXISTS"
	OpGet         Operation = "GET"
	OpPut         Operation = "PUT"
	OpCopy        Operation = "COPY"
	OpMove        Operation = "MOVE"
	OpDelete      Operation = "DELETE"
	OpIsDir       Operation = "IS_DIR"
	OpMkdir       Operation = "MKDIR"
	OpRmdir       Operation = "RMDIR"
	OpGetProperty Operation = "GET_PROPERTY"
)

// Outcome classifies a single server's status code for an operation.
type Outcome int

// Outcome classes. The zero value is HardFailure so unknown statuses fail.
const (
	HardFailure Outcome = iota
	Success
	// Benign statuses mean the target state already holds (already deleted, already exists).
	Benign
	// Retryable statuses mean the parent directory is missing.
	Retryable
)

// String returns the lowercase name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case Success:
		return "success"
	case Benign:
		return "benign"
	case Retryable:
		return "retryable"
	default:
		return "hard_failure"
	}
}

// AcceptanceTable maps HTTP status codes to outcome classes.
// Statuses missing from the table are hard failures.
type AcceptanceTable map[int]Outcome

// Classify returns the outcome class for status.
func (t AcceptanceTable) Classify(status int) Outcome {
	if outcome, ok := t[status]; ok {
		return outcome
	}
	return HardFailure
}

// Evaluate folds a complete ResponseSet into one verdict. Any hard failure
// wins, then any retryable status; otherwise every server landed in
// Success or Benign and the verdict is Success.
func (t AcceptanceTable) Evaluate(rs *ResponseSet) Outcome {
	verdict := Success
	for _, resp := range rs.All() {
		switch t.Classify(resp.StatusCode) {
		case HardFailure:
			return HardFailure
		case Retryable:
			verdict = Retryable
		}
	}
	return verdict
}

var acceptanceTables = map[Operation]AcceptanceTable{
	OpPut: {
		http.StatusOK:        Success,
		http.StatusCreated:   Success,
		http.StatusNoContent: Benign,
		http.StatusForbidden: Retryable,
		http.StatusNotFound:  Retryable,
		http.StatusConflict:  Retryable,
	},
	OpCopy: {
		http.StatusCreated: Success,
	},
	OpMove: {
		http.StatusCreated:   Success,
		http.StatusNoContent: Success,
	},
	OpDelete: {
		http.StatusOK:        Success,
		http.StatusNoContent: Success,
		http.StatusNotFound:  Benign,
	},
	OpMkdir: {
		http.StatusCreated:          Success,
		http.StatusMethodNotAllowed: Benign,
	},
	OpRmdir: {
		http.StatusNoContent: Success,
	},
}

// TableFor returns the acceptance table of a replicated operation.
// Single-server reads have no table and get an empty one.
func TableFor(op Operation) AcceptanceTable {
	if t, ok := acceptanceTables[op]; ok {
		return t
	}
	return AcceptanceTable{}
}
