// Package resources loads and validates the probability tables that drive
// schedule generation: Markov initial vectors and transition blocks,
// activity-duration distributions, event-duration and cluster-size
// distributions, appliance duration/energy samples and the monthly
// time-of-day shift tables.
//
// Tables are validated once at load time and are read-only afterwards, so a
// single Tables value may be shared by concurrent building generations.
package resources
