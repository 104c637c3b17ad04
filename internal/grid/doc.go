// Package grid loads declarative task grid files and drives their execution
// through the engine.
//
// A grid file declares task, map and reduce blocks. Argument expressions may
// reference the results of other blocks (task.NAME, map.NAME, reduce.NAME);
// each such reference becomes a future-handle dependency, so referenced work
// is never awaited eagerly; the engine schedules it as results resolve.
package grid
