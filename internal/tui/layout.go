package tui

const (
	defaultListWidth = 32
	listWidthDivisor = 3
)

// layoutDimensions holds the computed pane sizes for the current
// terminal width/height.
type layoutDimensions struct {
	ListWidth      int
	PreviewWidth   int
	ContentHeight  int
	ViewportWidth  int
	ViewportHeight int
}

func (m *Model) calculateLayout() layoutDimensions {
	listWidth := min(defaultListWidth, m.width/listWidthDivisor)
	previewWidth := max(0, m.width-listWidth)
	contentHeight := max(0, m.height-1)

	viewportWidth := max(0, previewWidth-previewPane.GetHorizontalFrameSize())
	viewportHeight := max(0, contentHeight-previewPane.GetVerticalFrameSize()-1)

	return layoutDimensions{
		ListWidth:      listWidth,
		PreviewWidth:   previewWidth,
		ContentHeight:  contentHeight,
		ViewportWidth:  viewportWidth,
		ViewportHeight: viewportHeight,
	}
}
