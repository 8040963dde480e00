// Package command wraps scene mutations in reversible, undoable units. Each
// Command knows how to apply itself to a scene.Document, how to undo that
// application, and how to build the inverse command a redo stack would need.
package command

import (
	"scenelang/identity"
	"scenelang/scene"
)

// Kind discriminates a Command's payload.
type Kind int

const (
	KindAddElement Kind = iota
	KindRemoveElement
	KindModifyStyle
	KindMoveElement
	KindReplaceElement
	KindTransform
	KindAddGradient
	KindRemoveGradient
	KindAddFilter
	KindRemoveFilter
	KindAddSymbol
	KindRemoveSymbol
	KindSetBackground
	KindBatch
)

// Command is a reversible scene mutation. Only the fields relevant to Kind
// are populated; the rest are zero.
type Command struct {
	Kind Kind

	ID    identity.ElementID
	Index int

	Element    scene.Element // AddElement, RemoveElement (the removed element, for undo)
	OldElement scene.Element // ReplaceElement
	NewElement scene.Element // ReplaceElement

	OldStyle scene.Style // ModifyStyle
	NewStyle scene.Style

	DX, DY float64 // MoveElement

	HasOldTransform bool // Transform
	OldTransform    string
	HasNewTransform bool
	NewTransform    string

	Gradient scene.Gradient // AddGradient, RemoveGradient
	Filter   scene.Filter   // AddFilter, RemoveFilter
	Symbol   scene.Symbol   // AddSymbol, RemoveSymbol

	OldBackground string // SetBackground
	NewBackground string

	Batch []Command
}

// Apply mutates doc according to c.
func (c Command) Apply(doc *scene.Document) {
	switch c.Kind {
	case KindAddElement:
		insertElement(doc, c.Index, c.Element)
	case KindRemoveElement:
		removeElement(doc, c.Index)
	case KindModifyStyle:
		if el := elementAt(doc, c.Index); el != nil {
			applyStyle(el, c.NewStyle)
		}
	case KindMoveElement:
		if el := elementAt(doc, c.Index); el != nil {
			translateElement(el, c.DX, c.DY)
		}
	case KindReplaceElement:
		if el := elementAt(doc, c.Index); el != nil {
			*el = c.NewElement
		}
	case KindTransform:
		if el := elementAt(doc, c.Index); el != nil {
			setTransform(el, c.NewTransform, c.HasNewTransform)
		}
	case KindAddGradient:
		doc.Gradients = append(doc.Gradients, c.Gradient)
	case KindRemoveGradient:
		removeGradient(doc, c.Gradient.ID)
	case KindAddFilter:
		doc.Filters = append(doc.Filters, c.Filter)
	case KindRemoveFilter:
		removeFilter(doc, c.Filter.ID)
	case KindAddSymbol:
		doc.Symbols = append(doc.Symbols, c.Symbol)
	case KindRemoveSymbol:
		removeSymbol(doc, c.Symbol.ID)
	case KindSetBackground:
		doc.Fill, doc.HasFill = c.NewBackground, true
	case KindBatch:
		for _, sub := range c.Batch {
			sub.Apply(doc)
		}
	}
}

// Unapply reverses c's effect on doc.
func (c Command) Unapply(doc *scene.Document) {
	switch c.Kind {
	case KindAddElement:
		removeElement(doc, c.Index)
	case KindRemoveElement:
		insertElement(doc, c.Index, c.Element)
	case KindModifyStyle:
		if el := elementAt(doc, c.Index); el != nil {
			applyStyle(el, c.OldStyle)
		}
	case KindMoveElement:
		if el := elementAt(doc, c.Index); el != nil {
			translateElement(el, -c.DX, -c.DY)
		}
	case KindReplaceElement:
		if el := elementAt(doc, c.Index); el != nil {
			*el = c.OldElement
		}
	case KindTransform:
		if el := elementAt(doc, c.Index); el != nil {
			setTransform(el, c.OldTransform, c.HasOldTransform)
		}
	case KindAddGradient:
		removeGradient(doc, c.Gradient.ID)
	case KindRemoveGradient:
		doc.Gradients = append(doc.Gradients, c.Gradient)
	case KindAddFilter:
		removeFilter(doc, c.Filter.ID)
	case KindRemoveFilter:
		doc.Filters = append(doc.Filters, c.Filter)
	case KindAddSymbol:
		removeSymbol(doc, c.Symbol.ID)
	case KindRemoveSymbol:
		doc.Symbols = append(doc.Symbols, c.Symbol)
	case KindSetBackground:
		doc.Fill, doc.HasFill = c.OldBackground, true
	case KindBatch:
		for i := len(c.Batch) - 1; i >= 0; i-- {
			c.Batch[i].Unapply(doc)
		}
	}
}

// Invert builds the command that would undo c were it applied via Apply
// instead of Unapply — the basis for a redo stack that re-executes forward.
func (c Command) Invert() Command {
	switch c.Kind {
	case KindAddElement:
		return Command{Kind: KindRemoveElement, ID: c.ID, Index: c.Index, Element: c.Element}
	case KindRemoveElement:
		return Command{Kind: KindAddElement, ID: c.ID, Index: c.Index, Element: c.Element}
	case KindModifyStyle:
		return Command{Kind: KindModifyStyle, ID: c.ID, Index: c.Index, OldStyle: c.NewStyle, NewStyle: c.OldStyle}
	case KindMoveElement:
		return Command{Kind: KindMoveElement, ID: c.ID, Index: c.Index, DX: -c.DX, DY: -c.DY}
	case KindReplaceElement:
		return Command{Kind: KindReplaceElement, ID: c.ID, Index: c.Index, OldElement: c.NewElement, NewElement: c.OldElement}
	case KindTransform:
		return Command{
			Kind: KindTransform, ID: c.ID, Index: c.Index,
			OldTransform: c.NewTransform, HasOldTransform: c.HasNewTransform,
			NewTransform: c.OldTransform, HasNewTransform: c.HasOldTransform,
		}
	case KindAddGradient:
		return Command{Kind: KindRemoveGradient, Gradient: c.Gradient}
	case KindRemoveGradient:
		return Command{Kind: KindAddGradient, Gradient: c.Gradient}
	case KindAddFilter:
		return Command{Kind: KindRemoveFilter, Filter: c.Filter}
	case KindRemoveFilter:
		return Command{Kind: KindAddFilter, Filter: c.Filter}
	case KindAddSymbol:
		return Command{Kind: KindRemoveSymbol, Symbol: c.Symbol}
	case KindRemoveSymbol:
		return Command{Kind: KindAddSymbol, Symbol: c.Symbol}
	case KindSetBackground:
		return Command{Kind: KindSetBackground, OldBackground: c.NewBackground, NewBackground: c.OldBackground}
	case KindBatch:
		inv := make([]Command, len(c.Batch))
		for i, sub := range c.Batch {
			inv[len(c.Batch)-1-i] = sub.Invert()
		}
		return Command{Kind: KindBatch, Batch: inv}
	}
	return Command{}
}

func elementAt(doc *scene.Document, idx int) *scene.Element {
	if idx < 0 || idx >= len(doc.Elements) {
		return nil
	}
	return &doc.Elements[idx]
}

func insertElement(doc *scene.Document, idx int, el scene.Element) {
	if idx < 0 || idx >= len(doc.Elements) {
		doc.Elements = append(doc.Elements, el)
		return
	}
	doc.Elements = append(doc.Elements, scene.Element{})
	copy(doc.Elements[idx+1:], doc.Elements[idx:])
	doc.Elements[idx] = el
}

func removeElement(doc *scene.Document, idx int) {
	if idx < 0 || idx >= len(doc.Elements) {
		return
	}
	doc.Elements = append(doc.Elements[:idx], doc.Elements[idx+1:]...)
}

func removeGradient(doc *scene.Document, id string) {
	for i, g := range doc.Gradients {
		if g.ID == id {
			doc.Gradients = append(doc.Gradients[:i], doc.Gradients[i+1:]...)
			return
		}
	}
}

func removeFilter(doc *scene.Document, id string) {
	for i, f := range doc.Filters {
		if f.ID == id {
			doc.Filters = append(doc.Filters[:i], doc.Filters[i+1:]...)
			return
		}
	}
}

func removeSymbol(doc *scene.Document, id string) {
	for i, s := range doc.Symbols {
		if s.ID == id {
			doc.Symbols = append(doc.Symbols[:i], doc.Symbols[i+1:]...)
			return
		}
	}
}

// applyStyle overwrites el's style record, whichever concrete kind el holds.
// Kinds with no style (image, group, graph) are left untouched.
func applyStyle(el *scene.Element, s scene.Style) {
	switch el.Kind {
	case scene.KindRect:
		el.Rect.Style = s
	case scene.KindCircle:
		el.Circle.Style = s
	case scene.KindEllipse:
		el.Ellipse.Style = s
	case scene.KindLine:
		el.Line.Style = s
	case scene.KindPath:
		el.Path.Style = s
	case scene.KindPolygon:
		el.Polygon.Style = s
	case scene.KindText:
		el.Text.Style = s
	case scene.KindDiamond:
		el.Diamond.Style = s
	case scene.KindNode:
		el.Node.Style = s
	case scene.KindEdge:
		el.Edge.Style = s
	}
}

// translateElement shifts el's position fields by (dx, dy), whichever
// concrete kind el holds. Path is left untouched: its geometry lives inside
// an opaque "d" string this package does not parse.
func translateElement(el *scene.Element, dx, dy float64) {
	switch el.Kind {
	case scene.KindRect:
		el.Rect.X += dx
		el.Rect.Y += dy
	case scene.KindCircle:
		el.Circle.CX += dx
		el.Circle.CY += dy
	case scene.KindEllipse:
		el.Ellipse.CX += dx
		el.Ellipse.CY += dy
	case scene.KindLine:
		el.Line.X1 += dx
		el.Line.Y1 += dy
		el.Line.X2 += dx
		el.Line.Y2 += dy
	case scene.KindText:
		el.Text.X += dx
		el.Text.Y += dy
	case scene.KindImage:
		el.Image.X += dx
		el.Image.Y += dy
	case scene.KindDiamond:
		el.Diamond.CX += dx
		el.Diamond.CY += dy
	case scene.KindNode:
		el.Node.CX += dx
		el.Node.CY += dy
	case scene.KindPolygon:
		for i := range el.Polygon.Points {
			el.Polygon.Points[i].X += dx
			el.Polygon.Points[i].Y += dy
		}
	}
}

// setTransform overwrites el's transform attribute, whichever concrete kind
// el holds. has=false clears it.
func setTransform(el *scene.Element, tf string, has bool) {
	if !has {
		tf = ""
	}
	switch el.Kind {
	case scene.KindRect:
		el.Rect.Transform = tf
	case scene.KindCircle:
		el.Circle.Transform = tf
	case scene.KindEllipse:
		el.Ellipse.Transform = tf
	case scene.KindLine:
		el.Line.Transform = tf
	case scene.KindPath:
		el.Path.Transform = tf
	case scene.KindPolygon:
		el.Polygon.Transform = tf
	case scene.KindText:
		el.Text.Transform = tf
	case scene.KindImage:
		el.Image.Transform = tf
	case scene.KindDiamond:
		el.Diamond.Transform = tf
	}
}

// History tracks applied commands on bounded undo/redo stacks. Executing a
// new command clears the redo stack, matching the usual editor convention
// that redo history is only valid until the next fresh edit.
type History struct {
	undos, redos []Command
	maxSize      int
}

// NewHistory returns a History capping its undo stack at maxSize entries.
func NewHistory(maxSize int) *History {
	return &History{maxSize: maxSize}
}

// Execute applies cmd to doc and pushes it onto the undo stack, evicting the
// oldest entry once the stack exceeds its cap.
func (h *History) Execute(cmd Command, doc *scene.Document) {
	cmd.Apply(doc)
	h.undos = append(h.undos, cmd)
	h.redos = nil
	if h.maxSize > 0 && len(h.undos) > h.maxSize {
		h.undos = h.undos[1:]
	}
}

// Undo reverses the most recently executed command, if any.
func (h *History) Undo(doc *scene.Document) bool {
	if len(h.undos) == 0 {
		return false
	}
	n := len(h.undos) - 1
	cmd := h.undos[n]
	h.undos = h.undos[:n]
	cmd.Unapply(doc)
	h.redos = append(h.redos, cmd)
	return true
}

// Redo re-applies the most recently undone command, if any.
func (h *History) Redo(doc *scene.Document) bool {
	if len(h.redos) == 0 {
		return false
	}
	n := len(h.redos) - 1
	cmd := h.redos[n]
	h.redos = h.redos[:n]
	cmd.Apply(doc)
	h.undos = append(h.undos, cmd)
	return true
}

func (h *History) CanUndo() bool   { return len(h.undos) > 0 }
func (h *History) CanRedo() bool   { return len(h.redos) > 0 }
func (h *History) UndoCount() int  { return len(h.undos) }
func (h *History) RedoCount() int  { return len(h.redos) }

// Clear discards both stacks.
func (h *History) Clear() {
	h.undos = nil
	h.redos = nil
}
