// Package channel implements the track layouts and the channel router that
// connects the output pins of one stage to the input pins of the next.
//
// # Overview
//
// A channel is the strip of grid between two adjacent stages. Every row of
// the strip is a track. A [Layout] records, per track, whether it is free,
// occupied by a constant-false pin or spacer, tied to constant true, or
// carrying a net.
//
// [Route] takes the layout on the left of the channel (where nets leave the
// previous stage) and the layout required on the right (where the next stage
// expects them) and produces an ordered list of [Step] values. Each step is
// one grid column wide: it lists the vertical [Wire] connections drawn in that
// column and the set of tracks carrying a signal once the column is crossed.
//
// # Algorithm
//
// Routing is a greedy fixed-point iteration:
//
//  1. Build one task per source track whose net is needed at one or more
//     destination tracks that do not already carry it.
//  2. Sort tasks by span so narrow connections are placed first.
//  3. Per step, complete every task whose covering range is still unclaimed in
//     this column and whose destinations are not held by another net, until
//     the claimed span exceeds [Options.UtilizationCap] of the channel.
//  4. If no task completes, evict: move each blocking net to the free track
//     that minimises distance from its source, penalised by
//     [Options.EvictionPenalty] per track outside its own destination span.
//     With no free track at all, the channel is widened first.
//
// Each iteration either completes a task or moves a blocking net onto a track
// no destination needs, so the number of steps is bounded by the number of
// tasks plus the number of initially blocking tracks.
//
// # Verification
//
// [Replay] applies a step list to a source layout and [Verify] checks the
// outcome against the destination layout. The pipeline verifies every
// channel before rendering it.
package channel
