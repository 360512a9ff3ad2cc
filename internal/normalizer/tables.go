package normalizer

import "vinfeatures/internal/models"

var countries = map[string]string{
	"1": "United States",
	"4": "United States",
	"2": "Canada",
	"3": "Mexico",
}

// Model-year codes as observed in the source data. The table has gaps and
// codes outside it resolve to models.UnknownYear.
var years = map[string]models.Year{
	"H": 1987, "K": 1989, "P": 1993, "R": 1994, "S": 1995, "T": 1996,
	"X": 1999, "Y": 2000, "W": 2001, "1": 2001, "V": 2002, "2": 2002,
	"3": 2003, "4": 2004, "5": 2005, "6": 2006, "7": 2007, "8": 2008,
	"9": 2009, "A": 2010, "B": 2011, "C": 2012, "D": 2013, "E": 2014,
	"F": 2015,
}

// LookupCountry resolves a country code. Unknown codes return models.Unknown and false.
func LookupCountry(code string) (string, bool) {
	name, ok := countries[code]
	if !ok {
		return models.Unknown, false
	}

	return name, true
}

// LookupYear resolves a model-year code. Unknown codes return models.UnknownYear and false.
func LookupYear(code string) (models.Year, bool) {
	y, ok := years[code]
	if !ok {
		return models.UnknownYear, false
	}

	return y, true
}
