// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package async provides the cooperative scheduling model used by a panel:
// a single-threaded event Loop and a generic Future type whose continuations
// always run on that loop.
//
// # Execution model
//
// Work never runs in parallel on a Loop. Tasks posted with Loop.Post run one
// at a time on the goroutine executing Loop.Run. Blocking work (remote calls)
// runs in its own goroutine via Go and reports back by settling a Future; the
// Future then posts its continuations onto the loop in the order futures
// complete, not the order they were started.
//
// Ordering is only guaranteed inside an explicit chain:
//
//	f := async.Then(files.Remove(ctx, name), func(struct{}) (*async.Future[[]string], error) {...})
//
// There is no cancellation or timeout. A future that never settles keeps its
// chain (and Loop.Settle) waiting forever.
package async
