package core

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var languages = []language.Tag{
	language.English, // default
	language.German,
}

var langMatcher = language.NewMatcher(languages)

var messages = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	for key, de := range map[string]string{
		"Active":                     "Aktiv",
		"Angels needed":              "Benötigte Engel",
		"Arrived":                    "Angekommen",
		"Default tasks of this room": "Standardaufgaben dieses Raums",
		"Goodbye":                    "Auf Wiedersehen",
		"Hometown":                   "Heimatort",
		"Language":                   "Sprache",
		"Login":                      "Anmelden",
		"Logout":                     "Abmelden",
		"Password":                   "Passwort",
		"Real name":                  "Name",
		"Roles":                      "Rollen",
		"Room":                       "Raum",
		"Shift entries":              "Schichteinträge",
		"Shifts":                     "Schichten",
		"T-shirt":                    "T-Shirt",
		"Tasks":                      "Aufgaben",
		"Username":                   "Benutzername",
		"Users":                      "Benutzer",
		"Welcome %s!":                "Willkommen %s!",
		"approved":                   "bestätigt",
		"free":                       "frei",
		"freeloaded":                 "nicht erschienen",
		"no":                         "nein",
		"no shifts":                  "keine Schichten",
		"restricted":                 "eingeschränkt",
		"taken":                      "belegt",
		"wrong username or password": "falscher Benutzername oder falsches Passwort",
		"yes":                        "ja",
	} {
		if err := messages.SetString(language.German, key, de); err != nil {
			panic(err)
		}
	}
}

var monthNamesDe = strings.NewReplacer(
	"January", "Januar",
	"February", "Februar",
	"March", "März",
	"May", "Mai",
	"June", "Juni",
	"July", "Juli",
	"October", "Oktober",
	"December", "Dezember",
)

// MatchLanguage returns the user locale if it is supported, else the best match for the Accept-Language header.
func MatchLanguage(userLocale string, acceptLanguage string) language.Tag {
	for _, tag := range languages {
		if base, _ := tag.Base(); base.String() == userLocale {
			return tag
		}
	}
	_, index := language.MatchStrings(langMatcher, acceptLanguage)
	return languages[index]
}

func newPrinter(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

func formatTime(tag language.Tag, t time.Time) string {
	if base, _ := tag.Base(); base.String() == "de" {
		return monthNamesDe.Replace(t.Format("2. January 2006 15:04 Uhr"))
	}
	return t.Format("January 2, 2006 3:04 PM")
}
