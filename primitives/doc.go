// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package primitives provides the bounded lock-free queue topologies that
// [laneq]'s producer-striped [laneq.Compound] doesn't cover on its own:
// single-producer/single-consumer, single-producer/multi-consumer, and
// multi-producer/multi-consumer.
//
// All four topologies — these three plus laneq.Compound itself — share one
// error vocabulary ([laneq.ErrWouldBlock]) and are reachable through
// [laneq.Builder] without the caller needing to name a concrete type.
package primitives
