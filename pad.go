// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package laneq

// pad is cache-line padding. Placed between hot fields so that a producer
// spinning on one cursor never pulls a consumer's cursor into the same
// cache line (and vice versa).
type pad [64]byte

// padShort pads a struct that already carries one 8-byte field up to a
// full cache line.
type padShort [64 - 8]byte
