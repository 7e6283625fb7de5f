// Package doubleheader decides whether multiple games between the same
// two teams on one date are a legitimate doubleheader or duplicated
// data. The verdict is a terminal classification computed once per
// group.
package doubleheader
