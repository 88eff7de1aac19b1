// README: Shared identifier and geographic value objects.
package types

type ID string

type Point struct {
	Lat float64
	Lng float64
}
