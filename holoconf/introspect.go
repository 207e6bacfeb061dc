package holoconf

// GetSource returns the origin tag (source file or synthetic tag) of the
// raw node at path, without resolving it (spec §6 "get_source").
func (c *Config) GetSource(path string) (string, error) {
	node, err := c.GetRaw(path)
	if err != nil {
		return "", err
	}

	return node.Origin, nil
}

// DumpSources returns every file this Config was built from, in load
// order (spec §6 "dump_sources"). For a merged Config this is the union of
// every contributing source's paths; per-leaf attribution is available via
// [Config.GetSource].
func (c *Config) DumpSources() []string {
	return append([]string(nil), c.sources...)
}
