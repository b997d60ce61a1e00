package draw

// Surface is an offscreen drawing target: a size and the List renderers draw
// into. A zero-sized surface has no usable context.
type Surface struct {
	list *List
}

func NewSurface(w, h float64) *Surface {
	return &Surface{list: NewList(Size{W: w, H: h})}
}

func (s *Surface) Size() Size {
	if s == nil || s.list == nil {
		return Size{}
	}
	return s.list.size
}

// Context returns nil while the surface has no area.
func (s *Surface) Context() Context {
	if s == nil || s.list == nil || s.list.size.Empty() {
		return nil
	}
	return s.list
}

func (s *Surface) Resize(w, h float64) {
	s.list.SetSize(Size{W: w, H: h})
}

// List is the recorded last frame.
func (s *Surface) List() *List { return s.list }
