package collection

// Transform aggregates like Agg and merges the per-group summaries back
// onto the original record sequence with a left join on the group keys,
// so every input record comes out once, annotated with its group's
// aggregate values. Requires an active group-key tuple.
func (c *Collection) Transform(specs ...AggSpec) (*Collection, error) {
	if !c.IsGrouped() {
		return nil, NewNotGroupedError("transform")
	}
	if _, err := c.records("transform"); err != nil {
		return nil, err
	}

	agg, err := c.Agg(specs...)
	if err != nil {
		return nil, err
	}

	mapping := Mapping{}
	for _, key := range c.groups {
		mapping[key] = key
	}
	return c.LeftJoin(agg, mapping)
}
