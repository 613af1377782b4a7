package pipeline

import "sort"

// ImageCadence is the number of paragraphs between two images.
const ImageCadence = 5

// Placement maps a paragraph index (headings not counted) to the image placed after it.
type Placement struct {
	byParagraph map[int]ImageRef
}

// PlanPlacement assigns images[j] to paragraph ImageCadence*j while both exist.
// Each image is used at most once and in fetch order.
func PlanPlacement(paragraphCount int, images []ImageRef) Placement {
	p := Placement{byParagraph: make(map[int]ImageRef)}
	for i := 0; i < paragraphCount; i += ImageCadence {
		j := i / ImageCadence
		if j >= len(images) {
			break
		}
		p.byParagraph[i] = images[j]
	}
	return p
}

// At returns the image placed after paragraph i, if any.
func (p Placement) At(i int) (ImageRef, bool) {
	img, ok := p.byParagraph[i]
	return img, ok
}

// Len returns the number of placed images.
func (p Placement) Len() int {
	return len(p.byParagraph)
}

// Indices returns the paragraph indices that receive an image, ascending.
func (p Placement) Indices() []int {
	out := make([]int, 0, len(p.byParagraph))
	for i := range p.byParagraph {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
