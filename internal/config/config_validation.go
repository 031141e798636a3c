package config

// validate back-fills defaults for every field no source supplied and checks
// the few values that have hard constraints.
func (c *StructuredConfig) validate() error {
	if c.Server.Address == "" {
		c.Server.Address = DefaultServerAddress
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = DefaultRequestTimeout
	}
	if c.Push.MaxFailures <= 0 {
		c.Push.MaxFailures = DefaultPushMaxFailures
	}
	if c.Push.Interval <= 0 {
		c.Push.Interval = DefaultPushInterval
	}
	if c.Client.ServerURL == "" {
		c.Client.ServerURL = DefaultClientServerURL
	}
	if c.Client.Timeout <= 0 {
		c.Client.Timeout = DefaultClientTimeout
	}
	if c.Storage.Session.Path == "" {
		c.Storage.Session.Path = DefaultSessionPath
	}

	return nil
}
