// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package search

import "errors"

// Sentinel errors for strategy construction and dispatch.
var (
	// ErrUnknownAlgorithm indicates no strategy is registered under a name.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrDuplicateAlgorithm indicates a name was registered twice.
	ErrDuplicateAlgorithm = errors.New("algorithm already registered")

	// ErrInvalidOption indicates a strategy option is out of range.
	ErrInvalidOption = errors.New("invalid option")
)

// AlgorithmError wraps a failure with the strategy and operation that
// produced it.
type AlgorithmError struct {
	Algorithm string
	Operation string
	Err       error
}

func (e *AlgorithmError) Error() string {
	return e.Algorithm + "." + e.Operation + ": " + e.Err.Error()
}

func (e *AlgorithmError) Unwrap() error {
	return e.Err
}

// ContractError describes a violation of the Domain contract.
//
// It is raised with panic, never returned: a violated contract is a
// defect in the domain or strategy, not a runtime condition.
type ContractError struct {
	// Operation is the contract method that was misused.
	Operation string

	// Detail describes the violation.
	Detail string
}

func (e *ContractError) Error() string {
	return "domain contract violation in " + e.Operation + ": " + e.Detail
}
