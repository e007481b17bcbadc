// Copyright 2026 The Wheelhouse Authors
// SPDX-License-Identifier: Apache-2.0

package wheel

import (
	"fmt"

	"github.com/wheelhouse-project/wheelhouse/lib/record"
)

// CorruptError reports structural damage: the archive cannot be read
// as a wheel at all. Contrast with IntegrityError, which reports
// content that disagrees with the manifest in a readable archive.
type CorruptError struct {
	Reason string
	Err    error
}

func (e *CorruptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("corrupt wheel: %s", e.Reason)
	}
	return fmt.Sprintf("corrupt wheel: %s: %v", e.Reason, e.Err)
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// IntegrityError reports manifest verification findings. Open returns
// it alongside a usable *Wheel: the archive parsed fine, but its
// contents deviate from RECORD.
type IntegrityError struct {
	Discrepancies []record.Discrepancy
}

func (e *IntegrityError) Error() string {
	n := len(e.Discrepancies)
	if n == 1 {
		return fmt.Sprintf("wheel fails verification: %s", e.Discrepancies[0])
	}
	return fmt.Sprintf("wheel fails verification: %d discrepancies (first: %s)", n, e.Discrepancies[0])
}
