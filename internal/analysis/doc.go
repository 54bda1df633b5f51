// Package analysis extracts periodicity from recorded particle paths.
//
// A free particle bouncing between two walls traces a triangle wave along
// each axis with a period of roughly 2*width/|vx| ticks. [DominantPeriod] recovers that
// period from sampled positions using the power spectrum.
package analysis
