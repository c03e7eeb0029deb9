// Package persist stores task definitions durably and rebuilds them at
// startup.
//
// Tasks wrap closures, which cannot be serialized. Persistence instead
// works on Specs: declarative descriptions that reference executable
// code through a named action registry. At startup the application
// registers its actions, loads specs from a backend, and builds tasks:
//
//	actions := persist.NewActions()
//	_ = actions.RegisterFunc("sync-inventory", syncInventory)
//
//	specs, _ := backend.List(ctx)
//	for _, spec := range specs {
//		t, err := persist.Build(spec, actions)
//		if err != nil {
//			continue
//		}
//		_ = sched.Schedule(t)
//	}
//
// Two backends are provided: MemoryBackend for tests and RedisBackend
// for durability across restarts. Frames that depend on runtime
// closures (conditionals, dependency gates) are registered whole under
// an action name rather than described field by field.
package persist
