package spawn

// Name pools for procedural generation.
var firstNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
	"Varen", "Wren", "Yorick", "Zander", "Arlen", "Beric", "Cade",
	"Dorian", "Edric", "Falk", "Gunnar", "Hugo", "Ivar", "Jorik",
	"Tomas", "Mateo", "Kofi", "Luca", "Sami", "Andrei", "Rafael",
}

var lastNames = []string{
	"Voss", "Thornwood", "Blackwood", "Ashford", "Dunmore", "Greenvale",
	"Millward", "Copperfield", "Silverdale", "Stoneheart", "Deepwell",
	"Brightwater", "Redforge", "Windholm", "Marshwood", "Goldhaven",
	"Riverstone", "Holloway", "Dawnridge", "Farrow", "Wyatt", "Thatcher",
	"Briar", "Caldwell", "Frost", "Harper", "Mercer", "Ward", "Cross",
	"Okafor", "Lindqvist", "Moreau", "Varga", "Castillo", "Nakamura",
}

var towns = []string{
	"Ashford", "Brackwater", "Caldmoor", "Dunmore", "Eastleigh", "Fenwick",
	"Greyhaven", "Harrowgate", "Ironbridge", "Kingsmere", "Larkfield", "Millbrook",
	"Northgate", "Oakhurst", "Portavon", "Queensferry", "Ravensholm", "Saltmarsh",
	"Thornbury", "Upton", "Westmarch", "Yarrow", "Blythe", "Cobham",
	"Deansgate", "Elmstead", "Foxley", "Glenrock", "Hollins", "Kestrel Bay",
	"Lowther", "Marsden", "Newhaven", "Orrell", "Pendle", "Redcliffe",
}

var suffixes = []string{
	"United", "City", "Town", "Rovers", "Athletic", "Wanderers", "Albion", "County", "FC", "Harriers",
}

var leagueNames = []string{
	"Premier Division", "Championship", "League One", "League Two", "National League",
}

var formations = []string{"4-4-2", "4-3-3", "4-2-3-1", "3-5-2", "5-3-2", "4-5-1"}
