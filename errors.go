// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrWouldBlock indicates the operation cannot proceed immediately: the
// lane (or every lane a Compound scanned) is full on enqueue, or empty on
// dequeue. It is a control flow signal, not a failure.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
var ErrWouldBlock = iox.ErrWouldBlock

// ErrContended indicates a producer lost a compare-and-swap race for a
// slot to another concurrent producer. It is returned only by
// [Lane.FailFastEnqueue] and never escapes [Lane.Enqueue] or
// [Compound.EnqueueFrom], both of which retry on it until they observe
// either success or genuine fullness.
var ErrContended = errors.New("laneq: lost the slot to a concurrent producer")

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsContended reports whether err indicates a lost compare-and-swap race.
func IsContended(err error) bool {
	return errors.Is(err, ErrContended)
}

// IsSemantic reports whether err is a control flow signal rather than a
// failure: [ErrWouldBlock], [ErrContended], or anything [iox.IsSemantic]
// already recognizes.
func IsSemantic(err error) bool {
	return IsContended(err) || iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil or any semantic error.
func IsNonFailure(err error) bool {
	return err == nil || IsSemantic(err)
}
