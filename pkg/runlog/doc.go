// Package runlog keeps an in-process record of tuning activity: which goals
// completed, which effect sets were committed, and which strategies were
// registered along the way.
//
// Responsibilities:
//   - Log appends and lists Records for a single process lifetime; it makes
//     no persistence assumptions and offers none (state does not survive a
//     restart).
//   - Recorder bridges the activity hook interface onto a Log, so an Env
//     configured with tune.WithActivityHooks(activity.Hooks{recorder})
//     accumulates its history here.
//
// Data flow:
//
//	Env -> activity.Emitter -> Recorder -> Log
package runlog
