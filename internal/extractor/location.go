package extractor

import "strings"

type city struct {
	Name      string
	Aliases   []string
	Latitude  float64
	Longitude float64
}

// cities is scanned in order, so more specific names precede the names they contain.
var cities = []city{
	{Name: "Navi Mumbai", Aliases: []string{"navi mumbai"}, Latitude: 19.0330, Longitude: 73.0297},
	{Name: "Mumbai", Aliases: []string{"mumbai", "bombay"}, Latitude: 19.0760, Longitude: 72.8777},
	{Name: "Delhi", Aliases: []string{"new delhi", "delhi"}, Latitude: 28.6139, Longitude: 77.2090},
	{Name: "Noida", Aliases: []string{"noida"}, Latitude: 28.5355, Longitude: 77.3910},
	{Name: "Gurugram", Aliases: []string{"gurugram", "gurgaon"}, Latitude: 28.4595, Longitude: 77.0266},
	{Name: "Bengaluru", Aliases: []string{"bengaluru", "bangalore"}, Latitude: 12.9716, Longitude: 77.5946},
	{Name: "Chennai", Aliases: []string{"chennai", "madras"}, Latitude: 13.0827, Longitude: 80.2707},
	{Name: "Kolkata", Aliases: []string{"kolkata", "calcutta"}, Latitude: 22.5726, Longitude: 88.3639},
	{Name: "Hyderabad", Aliases: []string{"hyderabad"}, Latitude: 17.3850, Longitude: 78.4867},
	{Name: "Pune", Aliases: []string{"pune"}, Latitude: 18.5204, Longitude: 73.8567},
	{Name: "Ahmedabad", Aliases: []string{"ahmedabad"}, Latitude: 23.0225, Longitude: 72.5714},
	{Name: "Jaipur", Aliases: []string{"jaipur"}, Latitude: 26.9124, Longitude: 75.7873},
	{Name: "Lucknow", Aliases: []string{"lucknow"}, Latitude: 26.8467, Longitude: 80.9462},
	{Name: "Chandigarh", Aliases: []string{"chandigarh"}, Latitude: 30.7333, Longitude: 76.7794},
	{Name: "Kochi", Aliases: []string{"kochi", "cochin"}, Latitude: 9.9312, Longitude: 76.2673},
	{Name: "Surat", Aliases: []string{"surat"}, Latitude: 21.1702, Longitude: 72.8311},
	{Name: "Nagpur", Aliases: []string{"nagpur"}, Latitude: 21.1458, Longitude: 79.0882},
	{Name: "Indore", Aliases: []string{"indore"}, Latitude: 22.7196, Longitude: 75.8577},
	{Name: "Bhopal", Aliases: []string{"bhopal"}, Latitude: 23.2599, Longitude: 77.4126},
	{Name: "Patna", Aliases: []string{"patna"}, Latitude: 25.5941, Longitude: 85.1376},
	{Name: "Vadodara", Aliases: []string{"vadodara", "baroda"}, Latitude: 22.3072, Longitude: 73.1812},
	{Name: "Coimbatore", Aliases: []string{"coimbatore"}, Latitude: 11.0168, Longitude: 76.9558},
	{Name: "Visakhapatnam", Aliases: []string{"visakhapatnam", "vizag"}, Latitude: 17.6868, Longitude: 83.2185},
	{Name: "Thiruvananthapuram", Aliases: []string{"thiruvananthapuram", "trivandrum"}, Latitude: 8.5241, Longitude: 76.9366},
	{Name: "Guwahati", Aliases: []string{"guwahati"}, Latitude: 26.1445, Longitude: 91.7362},
}

// Location is a detected city centroid. Latitude and Longitude are nil when
// no city was found.
type Location struct {
	City      string
	Latitude  *float64
	Longitude *float64
}

func (l Location) Found() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// DetectLocation returns the first city mentioned in text.
func DetectLocation(text string) Location {
	lower := strings.ToLower(text)
	for _, c := range cities {
		for _, alias := range c.Aliases {
			if strings.Contains(lower, alias) {
				lat, lon := c.Latitude, c.Longitude
				return Location{City: c.Name, Latitude: &lat, Longitude: &lon}
			}
		}
	}
	return Location{}
}

// CityCentroid looks up a city by name or alias.
func CityCentroid(name string) (Location, bool) {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, c := range cities {
		if strings.ToLower(c.Name) == key {
			lat, lon := c.Latitude, c.Longitude
			return Location{City: c.Name, Latitude: &lat, Longitude: &lon}, true
		}
		for _, alias := range c.Aliases {
			if alias == key {
				lat, lon := c.Latitude, c.Longitude
				return Location{City: c.Name, Latitude: &lat, Longitude: &lon}, true
			}
		}
	}
	return Location{}, false
}
