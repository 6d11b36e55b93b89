// Package transit finds the Julian dates at which angular relationships
// occur: aspects between two objects, lunar phases, eclipses, and the one
// to three conjunctions two planets make around a retrograde loop.
//
// # Searches
//
// Aspect and lunar-phase searches step through time one day at a time,
// re-reading both positions at every trial date, and slow to a step of
// diff/180 days once the remaining angular difference is smaller than the
// pair's relative daily motion. They stop when the difference is within
// 1e-6 degrees.
//
// A search for a relationship that never occurs does not terminate on its
// own. Callers bound it with WithMaxIterations, which turns an exhausted
// budget into a SearchError, or by cancelling the context.
//
// NextConjunction instead brackets sign changes of the signed longitude
// difference over a window sized from synodic and retrograde periods, and
// refines each bracket with Brent's method. Pairs with the Sun use the other
// body's own synodic period, since heliocentric periods say nothing about
// when an inner planet passes the Sun as seen from Earth.
package transit
