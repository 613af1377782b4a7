package docx

import "encoding/xml"

// XML namespaces used in the generated package.
const (
	nsW       = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP      = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA       = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic     = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsCP      = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC      = "http://purl.org/dc/elements/1.1/"
	nsDCTerms = "http://purl.org/dc/terms/"
	nsXSI     = "http://www.w3.org/2001/XMLSchema-instance"
	nsPkgRels = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
)

// Content types.
const (
	ctRels     = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML      = "application/xml"
	ctDocument = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles   = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctCore     = "application/vnd.openxmlformats-package.core-properties+xml"
)

// documentXML is word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	NSW     string   `xml:"xmlns:w,attr"`
	NSR     string   `xml:"xmlns:r,attr"`
	NSWP    string   `xml:"xmlns:wp,attr"`
	NSA     string   `xml:"xmlns:a,attr"`
	NSPic   string   `xml:"xmlns:pic,attr"`
	Body    bodyXML  `xml:"w:body"`
}

type bodyXML struct {
	Paragraphs []paragraphXML `xml:"w:p"`
	Section    sectionXML     `xml:"w:sectPr"`
}

// paragraphXML is a <w:p> element.
type paragraphXML struct {
	Props *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs  []runXML           `xml:"w:r"`
}

type paragraphPropsXML struct {
	Style   *valXML `xml:"w:pStyle,omitempty"`
	Justify *valXML `xml:"w:jc,omitempty"`
}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

// runXML is a <w:r> element. A run holds text, or a break followed by a drawing.
type runXML struct {
	Props   *runPropsXML `xml:"w:rPr,omitempty"`
	Break   *emptyXML    `xml:"w:br,omitempty"`
	Text    *textXML     `xml:"w:t,omitempty"`
	Drawing *drawingXML  `xml:"w:drawing,omitempty"`
}

type emptyXML struct{}

type runPropsXML struct {
	Fonts  *fontsXML `xml:"w:rFonts,omitempty"`
	Bold   *emptyXML `xml:"w:b,omitempty"`
	Size   *valXML   `xml:"w:sz,omitempty"`
	SizeCS *valXML   `xml:"w:szCs,omitempty"`
}

type fontsXML struct {
	ASCII string `xml:"w:ascii,attr"`
	HAnsi string `xml:"w:hAnsi,attr"`
	CS    string `xml:"w:cs,attr"`
}

type textXML struct {
	Space string `xml:"xml:space,attr"`
	Value string `xml:",chardata"`
}

// sectionXML sets US Letter pages with one inch margins.
type sectionXML struct {
	PageSize   pageSizeXML   `xml:"w:pgSz"`
	PageMargin pageMarginXML `xml:"w:pgMar"`
}

type pageSizeXML struct {
	W string `xml:"w:w,attr"`
	H string `xml:"w:h,attr"`
}

type pageMarginXML struct {
	Top    string `xml:"w:top,attr"`
	Right  string `xml:"w:right,attr"`
	Bottom string `xml:"w:bottom,attr"`
	Left   string `xml:"w:left,attr"`
}

// drawingXML is an inline picture.
type drawingXML struct {
	Inline inlineXML `xml:"wp:inline"`
}

type inlineXML struct {
	Extent  extentXML  `xml:"wp:extent"`
	DocPr   docPrXML   `xml:"wp:docPr"`
	Graphic graphicXML `xml:"a:graphic"`
}

type extentXML struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type docPrXML struct {
	ID   int    `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NonVisual nvPicPrXML   `xml:"pic:nvPicPr"`
	BlipFill  blipFillXML  `xml:"pic:blipFill"`
	Shape     shapePropXML `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr emptyXML `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect emptyXML `xml:"a:fillRect"`
}

type shapePropXML struct {
	Xfrm xfrmXML     `xml:"a:xfrm"`
	Geom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst emptyXML `xml:"a:avLst"`
}

// relationshipsXML is a .rels part.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	NS            string            `xml:"xmlns,attr"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

// contentTypesXML is [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name          `xml:"Types"`
	NS        string            `xml:"xmlns,attr"`
	Defaults  []defaultTypeXML  `xml:"Default"`
	Overrides []overrideTypeXML `xml:"Override"`
}

type defaultTypeXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideTypeXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// corePropsXML is docProps/core.xml.
type corePropsXML struct {
	XMLName   xml.Name       `xml:"cp:coreProperties"`
	NSCP      string         `xml:"xmlns:cp,attr"`
	NSDC      string         `xml:"xmlns:dc,attr"`
	NSDCTerms string         `xml:"xmlns:dcterms,attr"`
	NSXSI     string         `xml:"xmlns:xsi,attr"`
	Title     string         `xml:"dc:title"`
	Creator   string         `xml:"dc:creator"`
	Created   w3cDateTimeXML `xml:"dcterms:created"`
}

type w3cDateTimeXML struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}
