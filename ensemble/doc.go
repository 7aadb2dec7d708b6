// Package ensemble turns accepted chain states into the ordered statistic
// sequences that redistricting analysis actually compares.
//
// What:
//
//   - Extractors are pure, stateless functions over a partition and its
//     maintained aggregates: cut-edge count, subgroup-majority district
//     count, two-category seats won, and the efficiency gap.
//   - A Recorder binds extractors to named append-only Series and plugs
//     straight into the chain driver as its visitor.
//   - Combine sums series element-wise by step index, which is how ensembles
//     from regional sub-chains over disjoint territory aggregate into a
//     whole-territory ensemble — valid only when every sub-chain ran the
//     identical number of steps, which Combine enforces.
//
// Majority and seat policy:
//
//   - A subgroup or category wins a district only STRICTLY above 50% of the
//     district total. Exact halves count as no majority and no seat, and in
//     the efficiency gap a district where neither category clears 50%
//     contributes no wasted votes at all. These edge rules are deliberate,
//     documented policy inherited from the measured design.
//
// Idempotence: extractors read only the partition's aggregates, so
// re-running one on the same partition always reproduces its result.
package ensemble
