// Package harness runs recorded lifecycle event streams against the
// progress correlator and checks the resulting snapshot trace.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	run_id: run-0001
//	pipeline: training
//	catalog:
//	  - {key: raw, type: CSVDataSet}
//	  - {key: scratch, type: MemoryDataSet, category: ephemeral}
//	pipelines:
//	  training:
//	    - name: split
//	      inputs: [raw]
//	      outputs: [scratch]
//	events:
//	  - event: node_started
//	    node: split
//	  - event: dataset_loaded
//	    dataset: raw
//	assertions:
//	  - type: final_counter
//	    counter: loads
//	    done: 1
//	    total: 1
//
// Instead of inline catalog and pipelines a scenario may name a project
// directory (project: path/to/dir), loaded with the project package. Paths
// are relative to the scenario file.
//
// # Assertion Types
//
//   - final_state: the last snapshot is in the given state
//   - final_counter: a counter ends at the given done/total
//   - activity_seen: some snapshot carried the given activity label
//   - snapshot_count: exactly N snapshots were pushed
//   - monotonic: seq strictly increases and no counter ever decreases
//
// # Deterministic Testing
//
// Every scenario runs with a fixed run ID and testutil.DeterministicClock,
// so the trace is identical across runs and can be compared against a
// golden file.
package harness
