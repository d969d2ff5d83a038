package main

import (
	"fmt"

	"finitefield.org/hanko-fragments/internal/fragment/renderstub"
)

// sampleLists builds the datasets served by the stub rendering service.
func sampleLists() map[string][]renderstub.Item {
	articles := []renderstub.Item{
		{Title: "Choosing a seal script", Body: "Tensho remains the most common script for *registered* seals."},
		{Title: "Stone versus boxwood", Body: "Boxwood ages well when oiled; stone keeps a crisper edge."},
		{Title: "Care and storage", Body: "Keep the face clean and store the seal in its case."},
		{Title: "Registering a seal", Body: "Municipal offices accept seals between 8mm and 25mm."},
		{Title: "Vermilion paste", Body: "Traditional paste is made from cinnabar, castor oil, and mugwort."},
		{Title: "Round or square faces", Body: "Square faces are reserved for corporate use in most municipalities."},
		{Title: "Hand carving", Body: "A hand-carved face is never perfectly symmetric, by intent."},
		{Title: "Name orientation", Body: "Names read top-to-bottom, right-to-left on traditional faces."},
		{Title: "Titanium seals", Body: "Titanium resists wear but takes paste differently than horn."},
		{Title: "Repairing a chipped edge", Body: "Minor chips can be ground back by a carver without re-registration."},
		{Title: "Seal certificates", Body: "A certificate ties the impression on file to the holder."},
		{Title: "Banking seals", Body: "Banks usually require a seal distinct from the registered one."},
	}

	stamps := make([]renderstub.Item, 0, 10)
	for i := 1; i <= 10; i++ {
		stamps = append(stamps, renderstub.Item{
			Title: fmt.Sprintf("Gallery piece %d", i),
			Body:  fmt.Sprintf("Impression study number %d from the workshop archive.", i),
		})
	}

	return map[string][]renderstub.Item{
		"articles": articles,
		"stamps":   stamps,
	}
}
