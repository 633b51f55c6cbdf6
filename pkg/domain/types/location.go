package types

// Location is a place in the park. Values outside the well-known set are accepted.
type Location string

const (
	LocationEntrance         Location = "entrance"
	LocationSafariRoute      Location = "safari route"
	LocationFoodCourt        Location = "food court"
	LocationGiftShop         Location = "gift shop"
	LocationAnimalEnclosures Location = "animal enclosures"
	LocationRestrooms        Location = "restrooms"
	LocationParking          Location = "parking"
	LocationViewingAreas     Location = "viewing areas"
	LocationWalkingTrails    Location = "walking trails"
	LocationVisitorCenter    Location = "visitor center"
	LocationStore            Location = "store"
	LocationUnknown          Location = "unknown"
)

// DefaultLocation is assigned when nothing in a message matches.
const DefaultLocation = LocationUnknown

// KnownLocations returns the well-known locations in scan order.
func KnownLocations() []Location {
	return []Location{
		LocationEntrance,
		LocationSafariRoute,
		LocationFoodCourt,
		LocationGiftShop,
		LocationAnimalEnclosures,
		LocationRestrooms,
		LocationParking,
		LocationViewingAreas,
		LocationWalkingTrails,
		LocationVisitorCenter,
		LocationStore,
		LocationUnknown,
	}
}

// IsDefault reports whether l carries no information.
func (l Location) IsDefault() bool {
	return l == "" || l == DefaultLocation
}

// Normalize returns DefaultLocation for an empty location.
func (l Location) Normalize() Location {
	if l == "" {
		return DefaultLocation
	}
	return l
}

func (l Location) String() string {
	return string(l)
}
