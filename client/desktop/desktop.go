// Package desktop draws the console screen, lamps and stripe in a window and
// feeds keyboard input to the console.
package desktop

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/cbodonnell/suitcase/client/fonts"
	clientinput "github.com/cbodonnell/suitcase/client/input"
	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/input"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/render"
	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font"
)

const (
	ScreenWidth  = 800
	ScreenHeight = 480

	// maxLines is the number of body lines the layout reserves.
	maxLines = 5
)

var (
	backgroundColor = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	textColor       = color.NRGBA{R: 230, G: 230, B: 230, A: 255}
	dimColor        = color.NRGBA{R: 140, G: 140, B: 140, A: 255}
	alertColor      = color.NRGBA{R: 255, G: 70, B: 70, A: 255}
	redLampOff      = color.NRGBA{R: 60, G: 0, B: 0, A: 255}
	redLampOn       = color.NRGBA{R: 255, G: 30, B: 30, A: 255}
	blueLampOff     = color.NRGBA{R: 0, G: 0, B: 60, A: 255}
	blueLampOn      = color.NRGBA{R: 40, G: 120, B: 255, A: 255}
)

// Console is the part of the game manager the window needs.
type Console interface {
	Snapshot() types.Snapshot
	Rules() game.Rules
	Submit(ev input.Event) error
}

// Desktop implements ebiten.Game interface, which has Update, Draw and Layout methods.
type Desktop struct {
	ctx     context.Context
	console Console
	panel   *effects.Panel
	keymap  *input.Keymap
	keys    *clientinput.KeyTracker
	start   time.Time
	// sequence of the snapshot currently shown
	sequence uint64

	ui     *ebitenui.UI
	title  *widget.Text
	status *widget.Text
	lines  []*widget.Text
	footer *widget.Text
}

type NewDesktopOptions struct {
	Console Console
	Panel   *effects.Panel
}

func NewDesktop(opts NewDesktopOptions) *Desktop {
	d := &Desktop{
		ctx:     context.Background(),
		console: opts.Console,
		panel:   opts.Panel,
		keymap:  input.NewKeymap(),
		keys:    clientinput.NewKeyTracker(),
		start:   time.Now(),
	}
	if d.panel == nil {
		d.panel = effects.NewPanel()
	}
	d.renderUI()
	return d
}

func (d *Desktop) renderUI() {
	rootContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(backgroundColor)),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(widget.Insets{
				Top:    30,
				Left:   40,
				Right:  40,
				Bottom: 90,
			}))),
	)

	newText := func(face font.Face, clr color.Color) *widget.Text {
		t := widget.NewText(
			widget.TextOpts.Text("", face, clr),
			widget.TextOpts.WidgetOpts(
				widget.WidgetOpts.LayoutData(widget.RowLayoutData{
					Position: widget.RowLayoutPositionStart,
					Stretch:  true,
				}),
			),
		)
		rootContainer.AddChild(t)
		return t
	}

	d.title = newText(fonts.TTFNormalFont, dimColor)
	d.status = newText(fonts.MPlusLargeFont, textColor)
	d.lines = make([]*widget.Text, maxLines)
	for i := range d.lines {
		d.lines[i] = newText(fonts.TTFNormalFont, textColor)
	}
	d.footer = newText(fonts.TTFSmallFont, dimColor)

	d.ui = &ebitenui.UI{
		Container: rootContainer,
	}
}

// Run opens the window and blocks until it is closed or ctx is done.
func (d *Desktop) Run(ctx context.Context, fullscreen bool) error {
	d.ctx = ctx
	ebiten.SetWindowSize(ScreenWidth, ScreenHeight)
	ebiten.SetWindowTitle("suitcase")
	ebiten.SetFullscreen(fullscreen)
	if err := ebiten.RunGame(d); err != nil {
		return fmt.Errorf("failed to run desktop: %v", err)
	}
	return nil
}

func (d *Desktop) Update() error {
	select {
	case <-d.ctx.Done():
		return ebiten.Termination
	default:
	}

	pressed, released := d.keys.Update()
	for _, key := range pressed {
		d.submit(d.keymap.Press(key))
	}
	for _, key := range released {
		d.submit(d.keymap.Release(key))
	}

	snapshot := d.console.Snapshot()
	if snapshot.Sequence != d.sequence {
		d.sequence = snapshot.Sequence
		d.show(render.Build(snapshot.Session, d.console.Rules()))
	}

	d.ui.Update()
	return nil
}

func (d *Desktop) show(v render.View) {
	d.title.Label = v.Title
	d.status.Label = v.Status
	d.status.Color = textColor
	if v.Alert {
		d.status.Color = alertColor
	}
	for i, l := range d.lines {
		l.Label = ""
		if i < len(v.Lines) {
			l.Label = v.Lines[i]
		}
	}
	d.footer.Label = v.Footer
}

func (d *Desktop) Draw(screen *ebiten.Image) {
	d.ui.Draw(screen)
	d.drawPanel(screen, time.Since(d.start))
}

// drawPanel draws the two lamps and the stripe along the bottom edge.
func (d *Desktop) drawPanel(screen *ebiten.Image, at time.Duration) {
	state := d.panel.State()
	y := float32(ScreenHeight - 45)

	red := redLampOff
	if state.Lit(effects.ChannelRed, at) {
		red = redLampOn
	}
	vector.DrawFilledCircle(screen, 70, y, 22, red, true)

	blue := blueLampOff
	if state.Lit(effects.ChannelBlue, at) {
		blue = blueLampOn
	}
	vector.DrawFilledCircle(screen, 130, y, 22, blue, true)

	c := state.StripeAt(at)
	vector.DrawFilledRect(screen, 190, y-8, ScreenWidth-230, 16, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 255}, false)
}

func (d *Desktop) Layout(outsideWidth, outsideHeight int) (int, int) {
	return ScreenWidth, ScreenHeight
}

func (d *Desktop) submit(events []input.Event) {
	for _, ev := range events {
		if err := d.console.Submit(ev); err != nil {
			log.Error("Failed to submit %s: %v", ev, err)
		}
	}
}
