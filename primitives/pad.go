// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package primitives

// pad is cache-line padding, isolating a hot field from its neighbors to
// avoid false sharing between cores.
type pad [64]byte

// padShort pads a struct that already carries one 8-byte field up to a
// full cache line.
type padShort [64 - 8]byte
