// Package sim drives the allocator engine with a random workload.
//
// A run presents one strategy with Steps requests drawn from a closed process
// list. A picked process that is live is released; otherwise it is placed.
// Every strategy is run from a reset engine with a picker seeded the same
// way, so all strategies see the identical pick sequence.
//
//	runner := sim.NewRunner(cfg, sim.WithLogger(logger.L))
//	results, err := runner.RunAll()
//	if err != nil {
//	    return err
//	}
//	sim.WriteText(os.Stdout, results)
package sim
