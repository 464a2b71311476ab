package orchestrator

// SetLookupEnv replaces the environment lookup used to resolve build env defaults.
func (o *Orchestrator) SetLookupEnv(lookup func(string) (string, bool)) {
	o.lookupEnv = lookup
}
