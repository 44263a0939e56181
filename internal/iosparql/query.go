package iosparql

import (
	"strings"
	"text/template"
)

// Wikidata items used by the events query.
//
//	Q10931  revolution
//	Q124734 rebellion
//	Q45382  coup d'état
//	P580    start time, P585 point in time
//	P582    end time
//	P17     country, P297 its ISO 3166-1 alpha-2 code
//	P625    coordinate location
//	P1120   number of deaths
const eventsQuery = `PREFIX wd: <http://www.wikidata.org/entity/>
PREFIX wdt: <http://www.wikidata.org/prop/direct/>
PREFIX wikibase: <http://wikiba.se/ontology#>
PREFIX bd: <http://www.bigdata.com/rdf#>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>

SELECT ?item ?itemLabel ?itemDescription ?start ?end
       ?countryLabel ?countryIso ?coord ?typeLabel ?deaths
WHERE {
  VALUES ?class { {{range $i, $c := .Classes}}{{if $i}} {{end}}wd:{{$c}}{{end}} }
  ?item wdt:P31 ?type .
  ?type wdt:P279* ?class .
  ?item wdt:P580|wdt:P585 ?start .
  FILTER(YEAR(?start) >= {{.MinYear}})
  OPTIONAL { ?item wdt:P582 ?end . }
  OPTIONAL {
    ?item wdt:P17 ?country .
    OPTIONAL { ?country wdt:P297 ?countryIso . }
  }
  OPTIONAL { ?item wdt:P625 ?coord . }
  OPTIONAL { ?item wdt:P1120 ?deaths . }
  SERVICE wikibase:label { bd:serviceParam wikibase:language "en". }
}
ORDER BY ?item
LIMIT {{.Limit}}
OFFSET {{.Offset}}
`

// EventClasses are the Wikidata classes whose instances, including
// instances of subclasses, are imported.
var EventClasses = []string{"Q10931", "Q124734", "Q45382"}

var eventsTmpl = template.Must(template.New("events").Parse(eventsQuery))

// QueryParams selects one page of events.
type QueryParams struct {
	Classes []string
	MinYear int
	Limit   int
	Offset  int
}

// EventsQuery renders the SPARQL query for one page of events.
func EventsQuery(p QueryParams) (string, error) {
	if len(p.Classes) == 0 {
		p.Classes = EventClasses
	}

	var sb strings.Builder
	if err := eventsTmpl.Execute(&sb, p); err != nil {
		return "", QueryTemplateError(err)
	}
	return sb.String(), nil
}
