package export

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"docuextract/internal/memo"
)

// xmlNode is the closed node model the markup serializer walks: a node is
// either a scalar (children == nil) or an object. Arrays are represented
// as repeated sibling nodes carrying the array's key, one per element.
type xmlNode struct {
	key      string
	scalar   string
	children []xmlNode
}

func scalarNode(key, value string) xmlNode {
	return xmlNode{key: key, scalar: value, children: nil}
}

func numberNode(key string, n memo.Number) xmlNode {
	return scalarNode(key, strconv.FormatFloat(n.Float(), 'f', -1, 64))
}

func objectNode(key string, children ...xmlNode) xmlNode {
	if children == nil {
		children = []xmlNode{}
	}
	return xmlNode{key: key, children: children}
}

// exportXML serializes the record depth-first: object keys become element
// tag names, array values repeat the array's key once per element, scalars
// become text content. Text content is escaped by the document writer, so
// reserved markup characters in memo fields cannot break the output.
func (e *Exporter) exportXML(m *memo.CashMemo) (*File, error) {
	root := objectNode("cashMemo",
		scalarNode("number", m.Number),
		scalarNode("date", m.Date),
		objectNode("shop",
			scalarNode("name", m.Shop.Name),
			scalarNode("tagline", m.Shop.Tagline),
			scalarNode("address", m.Shop.Address),
			scalarNode("phone", m.Shop.Phone),
			scalarNode("cell", m.Shop.Cell),
		),
		objectNode("customer",
			scalarNode("name", m.Customer.Name),
			scalarNode("address", m.Customer.Address),
			scalarNode("number", m.Customer.Number),
		),
	)

	for _, p := range m.Products {
		root.children = append(root.children, objectNode("products",
			scalarNode("slNo", p.SlNo.String()),
			scalarNode("description", p.Description),
			scalarNode("size", p.Size),
			numberNode("quantity", p.Quantity),
			numberNode("rate", p.Rate),
			numberNode("amount", p.Amount),
			numberNode("discount", p.Discount),
		))
	}

	root.children = append(root.children,
		objectNode("totals",
			numberNode("total", m.Totals.Total),
			numberNode("advance", m.Totals.Advance),
			numberNode("balance", m.Totals.Balance),
			numberNode("discount", m.Totals.Discount),
		),
		scalarNode("inWords", m.InWords),
		objectNode("footer",
			scalarNode("delivery", m.Footer.Delivery),
			scalarNode("note", m.Footer.Note),
			scalarNode("receivedBy", m.Footer.ReceivedBy),
			scalarNode("for", m.Footer.For),
		),
		scalarNode("language", m.Language),
	)

	doc := etree.NewDocument()
	addNode(&doc.Element, root)

	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml write: %w", err)
	}

	return &File{
		Name:        fileName(m, "xml"),
		ContentType: "application/xml; charset=utf-8",
		Data:        data,
	}, nil
}

func addNode(parent *etree.Element, n xmlNode) {
	el := parent.CreateElement(n.key)
	if n.children == nil {
		el.SetText(n.scalar)
		return
	}
	for _, child := range n.children {
		addNode(el, child)
	}
}
