package controller

// BatchStep is one queued operation in a batch run.
type BatchStep func(*Controller) error

// BatchRun executes the whole step list once per configured repeat round
// with per-operation retries disabled, so a three-repeat run of [A,B] sends
// A,B,A,B,A,B rather than A,A,A,B,B,B. Interleaving the rounds gets every
// operation on the air sooner at the end of a long sequence.
//
// The repeat count is restored even when a step fails; the first failure
// aborts the run.
func (c *Controller) BatchRun(steps ...BatchStep) error {
	rounds := c.repeats
	c.repeats = 1
	defer func() { c.repeats = rounds }()

	for round := 0; round < rounds; round++ {
		for _, step := range steps {
			if err := step(c); err != nil {
				return err
			}
		}
	}
	return nil
}
