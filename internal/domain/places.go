package domain

// Place is a named coordinate with the lower-case keywords that identify it
// in free text.
type Place struct {
	Name     string
	Lat      float64
	Lon      float64
	Keywords []string
}

// Point returns the place's coordinates.
func (p Place) Point() *Point { return At(p.Lat, p.Lon) }

// countries is ordered: text geocoding returns the first entry with a
// matching keyword, so more specific conflict regions come first.
var countries = []Place{
	{"Ukraine", 50.4501, 30.5234, []string{"ukraine", "kyiv", "kiev", "kharkiv", "odesa", "lviv", "donetsk", "mariupol"}},
	{"Russia", 55.7558, 37.6173, []string{"russia", "moscow", "kremlin", "putin", "st petersburg"}},
	{"Israel", 31.7683, 35.2137, []string{"israel", "jerusalem", "tel aviv", "gaza", "haifa", "netanyahu"}},
	{"Palestine", 31.9522, 35.2332, []string{"palestine", "gaza", "west bank", "ramallah", "palestinian"}},
	{"Syria", 33.5138, 36.2765, []string{"syria", "damascus", "aleppo", "syrian"}},
	{"Iran", 35.6892, 51.3890, []string{"iran", "tehran", "iranian"}},
	{"Iraq", 33.3128, 44.3615, []string{"iraq", "baghdad", "mosul", "iraqi"}},
	{"Afghanistan", 34.5553, 69.2075, []string{"afghanistan", "kabul", "taliban", "afghan"}},
	{"China", 39.9042, 116.4074, []string{"china", "beijing", "shanghai", "chinese", "xi jinping"}},
	{"Taiwan", 25.0330, 121.5654, []string{"taiwan", "taipei", "taiwanese"}},
	{"North Korea", 39.0392, 125.7625, []string{"north korea", "pyongyang", "kim jong"}},
	{"South Korea", 37.5665, 126.9780, []string{"south korea", "seoul", "korean"}},
	{"Japan", 35.6762, 139.6503, []string{"japan", "tokyo", "japanese"}},
	{"India", 28.6139, 77.2090, []string{"india", "delhi", "mumbai", "indian", "modi"}},
	{"Pakistan", 33.6844, 73.0479, []string{"pakistan", "islamabad", "karachi", "pakistani"}},
	{"Yemen", 15.5527, 48.5164, []string{"yemen", "sanaa", "houthi", "yemeni"}},
	{"Lebanon", 33.8886, 35.4955, []string{"lebanon", "beirut", "hezbollah", "lebanese"}},
	{"Turkey", 39.9334, 32.8597, []string{"turkey", "ankara", "istanbul", "turkish", "erdogan"}},
	{"Egypt", 30.0444, 31.2357, []string{"egypt", "cairo", "egyptian"}},
	{"Libya", 32.8872, 13.1913, []string{"libya", "tripoli", "libyan"}},
	{"Sudan", 15.5007, 32.5599, []string{"sudan", "khartoum", "sudanese"}},
	{"Ethiopia", 9.1450, 40.4897, []string{"ethiopia", "addis ababa", "ethiopian"}},
	{"Somalia", 2.0469, 45.3182, []string{"somalia", "mogadishu", "somali"}},
	{"Congo", -4.3217, 15.3125, []string{"congo", "kinshasa", "drc", "congolese"}},
	{"Nigeria", 9.0765, 7.3986, []string{"nigeria", "abuja", "lagos", "nigerian"}},
	{"South Africa", -25.7479, 28.2293, []string{"south africa", "pretoria", "cape town", "johannesburg"}},
	{"Venezuela", 10.4806, -66.9036, []string{"venezuela", "caracas", "maduro", "venezuelan"}},
	{"Colombia", 4.7110, -74.0721, []string{"colombia", "bogota", "colombian"}},
	{"Brazil", -15.8267, -47.9218, []string{"brazil", "brasilia", "rio", "sao paulo", "brazilian"}},
	{"Argentina", -34.6037, -58.3816, []string{"argentina", "buenos aires", "argentinian"}},
	{"Mexico", 19.4326, -99.1332, []string{"mexico", "mexico city", "mexican", "cartel"}},
	{"Haiti", 18.5944, -72.3074, []string{"haiti", "port-au-prince", "haitian"}},
	{"Myanmar", 16.8661, 96.1951, []string{"myanmar", "yangon", "burma", "rohingya"}},
	{"Philippines", 14.5995, 120.9842, []string{"philippines", "manila", "filipino"}},
	{"Indonesia", -6.2088, 106.8456, []string{"indonesia", "jakarta", "indonesian"}},
	{"Thailand", 13.7563, 100.5018, []string{"thailand", "bangkok", "thai"}},
	{"Vietnam", 21.0285, 105.8542, []string{"vietnam", "hanoi", "vietnamese"}},
	{"Australia", -35.2809, 149.1300, []string{"australia", "canberra", "sydney", "australian"}},
	{"New Zealand", -41.2865, 174.7762, []string{"new zealand", "wellington", "auckland"}},
	{"UK", 51.5074, -0.1278, []string{"uk", "britain", "london", "england", "scotland", "wales", "british"}},
	{"France", 48.8566, 2.3522, []string{"france", "paris", "french"}},
	{"Germany", 52.5200, 13.4050, []string{"germany", "berlin", "german"}},
	{"Italy", 41.9028, 12.4964, []string{"italy", "rome", "italian"}},
	{"Spain", 40.4168, -3.7038, []string{"spain", "madrid", "barcelona", "spanish"}},
	{"Poland", 52.2297, 21.0122, []string{"poland", "warsaw", "polish"}},
	{"USA", 38.9072, -77.0369, []string{"usa", "america", "washington", "american", "united states"}},
}

// regions are only reachable through LookupPlace; they never match free text.
var regions = []Place{
	{Name: "Canada", Lat: 43.6532, Lon: -79.3832},
	{Name: "Europe", Lat: 50.0, Lon: 10.0},
}

// placeAliases maps alternative names onto country table keys.
var placeAliases = map[string]string{
	"united kingdom":                   "uk",
	"great britain":                    "uk",
	"united states":                    "usa",
	"burma":                            "myanmar",
	"democratic republic of the congo": "congo",
	"west bank and gaza":               "palestine",
	"the philippines":                  "philippines",
}

// vendors maps software and hardware vendors to headquarters locations.
var vendors = []Place{
	{"Redmond, USA", 47.6062, -122.3321, []string{"microsoft", "windows", "azure", "office", "exchange", "sharepoint"}},
	{"Cupertino, USA", 37.3346, -122.0090, []string{"apple", "macos", "ios", "iphone", "ipad", "safari"}},
	{"Mountain View, USA", 37.4220, -122.0841, []string{"google", "chrome", "android", "pixel"}},
	{"Redwood City, USA", 37.5297, -121.9750, []string{"oracle", "java", "mysql", "solaris"}},
	{"San Jose, USA", 37.4088, -121.9388, []string{"cisco", "webex", "ios xe"}},
	{"San Jose, USA", 37.3317, -121.8900, []string{"adobe", "acrobat", "photoshop", "flash"}},
	{"Palo Alto, USA", 37.4027, -121.9761, []string{"vmware", "esxi", "vcenter"}},
	{"Armonk, USA", 41.1089, -73.7203, []string{"ibm", "websphere", "db2"}},
	{"Raleigh, USA", 35.7796, -78.6382, []string{"redhat", "rhel", "openshift", "fedora"}},
	{"Portland, USA", 45.5152, -122.6784, []string{"linux", "kernel", "ubuntu", "debian"}},
	{"Walldorf, Germany", 49.2933, 8.6417, []string{"sap", "netweaver"}},
	{"Munich, Germany", 48.1351, 11.5820, []string{"siemens", "simatic"}},
	{"Seoul, South Korea", 37.5665, 126.9780, []string{"samsung", "galaxy"}},
	{"Shenzhen, China", 22.5431, 114.0579, []string{"huawei"}},
	{"Sunnyvale, USA", 37.3861, -121.9233, []string{"fortinet", "fortigate"}},
	{"Santa Clara, USA", 37.4419, -122.1430, []string{"palo alto networks", "pan-os"}},
	{"Sunnyvale, USA", 37.3980, -121.9221, []string{"juniper", "junos"}},
	{"Round Rock, USA", 30.4018, -97.7252, []string{"dell", "emc"}},
	{"Palo Alto, USA", 37.4054, -121.9690, []string{"hp", "hewlett packard"}},
	{"San Francisco, USA", 37.7749, -122.4194, []string{"wordpress", "wp"}},
	{"Portland, USA", 45.5152, -122.6784, []string{"drupal"}},
	{"Forest Hill, USA", 38.5816, -121.4944, []string{"apache", "tomcat", "struts"}},
	{"San Francisco, USA", 37.7749, -122.4194, []string{"nginx"}},
	{"Mountain View, USA", 37.3861, -122.0839, []string{"mozilla", "firefox", "thunderbird"}},
}

var defaultVendorPlace = Place{Name: "Silicon Valley, USA", Lat: 37.3861, Lon: -122.0839}

// regionCenters covers US states, territories, and NWS marine and Great
// Lakes zone prefixes.
var regionCenters = map[string]Point{
	"AL": {32.806671, -86.791130}, "AK": {61.370716, -152.404419},
	"AZ": {33.729759, -111.431221}, "AR": {34.969704, -92.373123},
	"CA": {36.116203, -119.681564}, "CO": {39.059811, -105.311104},
	"CT": {41.597782, -72.755371}, "DE": {39.318523, -75.507141},
	"FL": {27.766279, -81.686783}, "GA": {33.040619, -83.643074},
	"HI": {21.094318, -157.498337}, "ID": {44.240459, -114.478828},
	"IL": {40.349457, -88.986137}, "IN": {39.849426, -86.258278},
	"IA": {42.011539, -93.210526}, "KS": {38.526600, -96.726486},
	"KY": {37.668140, -84.670067}, "LA": {31.169546, -91.867805},
	"ME": {44.693947, -69.381927}, "MD": {39.063946, -76.802101},
	"MA": {42.230171, -71.530106}, "MI": {43.326618, -84.536095},
	"MN": {45.694454, -93.900192}, "MS": {32.741646, -89.678696},
	"MO": {38.456085, -92.288368}, "MT": {46.921925, -110.454353},
	"NE": {41.125370, -98.268082}, "NV": {38.313515, -117.055374},
	"NH": {43.452492, -71.563896}, "NJ": {40.298904, -74.521011},
	"NM": {34.840515, -106.248482}, "NY": {42.165726, -74.948051},
	"NC": {35.630066, -79.806419}, "ND": {47.528912, -99.784012},
	"OH": {40.388783, -82.764915}, "OK": {35.565342, -96.928917},
	"OR": {44.572021, -122.070938}, "PA": {40.590752, -77.209755},
	"RI": {41.680893, -71.511780}, "SC": {33.856892, -80.945007},
	"SD": {44.299782, -99.438828}, "TN": {35.747845, -86.692345},
	"TX": {31.054487, -97.563461}, "UT": {40.150032, -111.862434},
	"VT": {44.045876, -72.710686}, "VA": {37.769337, -78.169968},
	"WA": {47.400902, -121.490494}, "WV": {38.491226, -80.954453},
	"WI": {44.268543, -89.616508}, "WY": {42.755966, -107.302490},
	"DC": {38.907192, -77.036871},

	"PR": {18.220833, -66.590149}, "VI": {18.335765, -64.896335},
	"GU": {13.444304, 144.793731}, "AS": {-14.270972, -170.132217},
	"MP": {15.0979, 145.6739},

	// Marine: Gulf of Mexico, Atlantic, Pacific, Alaska Pacific, Pacific islands.
	"GM": {25.5, -90.0}, "AM": {35.0, -70.0},
	"PZ": {40.0, -130.0}, "PK": {55.0, -155.0},
	"PM": {20.0, -160.0}, "AN": {58.0, -170.0},
	"PS": {10.0, 140.0},

	// Great Lakes and St. Lawrence.
	"SL": {45.0, -85.0}, "LO": {43.5, -82.0}, "LM": {44.0, -87.0},
	"LH": {47.0, -85.0}, "LS": {47.5, -89.0}, "LE": {42.5, -81.0},
}

// ContiguousUSCenter is the fallback for unknown region codes.
var ContiguousUSCenter = Point{Lat: 39.8283, Lon: -98.5795}
