package browser

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// Humanizer produces the randomized timing, typing cadence, click offsets
// and scroll paths used by every interactive browser action. One instance
// per scrape; a fixed seed makes the schedule deterministic under test.
type Humanizer struct {
	rng *rand.Rand
}

// NewHumanizer returns a humanizer seeded from seed, or from the clock when
// seed is zero.
func NewHumanizer(seed int64) *Humanizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Humanizer{rng: rand.New(rand.NewSource(seed))}
}

// Delay blocks for a uniformly sampled duration between min and max.
func (h *Humanizer) Delay(min, max time.Duration) {
	time.Sleep(h.between(min, max))
}

func (h *Humanizer) between(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(h.rng.Int63n(int64(max-min)))
}

// typeDelay samples the base per-character delay: 50-250ms, with a 10%
// chance of an extended pause on top.
func (h *Humanizer) typeDelay() time.Duration {
	d := h.between(50*time.Millisecond, 250*time.Millisecond)
	if h.rng.Float64() < 0.10 {
		d += h.between(100*time.Millisecond, 500*time.Millisecond)
	}
	return d
}

// scrollSteps samples the number of sub-increments for one gradual scroll.
func (h *Humanizer) scrollSteps() int {
	return 5 + h.rng.Intn(11)
}

// TypeLikeHuman sends text into the element matched by sel one character at
// a time with randomized delays, occasionally injecting and deleting a
// wrong character or pausing as if thinking. Any element-interaction error
// degrades to an atomic value set.
func (h *Humanizer) TypeLikeHuman(ctx context.Context, sel, text string) error {
	for _, r := range text {
		if h.rng.Float64() < 0.02 && r != ' ' {
			wrong := rune('a' + h.rng.Intn(26))
			if err := chromedp.Run(ctx, chromedp.SendKeys(sel, string(wrong), chromedp.ByQuery)); err != nil {
				return h.setValue(ctx, sel, text, err)
			}
			h.Delay(100*time.Millisecond, 300*time.Millisecond)
			if err := chromedp.Run(ctx, chromedp.SendKeys(sel, kb.Backspace, chromedp.ByQuery)); err != nil {
				return h.setValue(ctx, sel, text, err)
			}
			h.Delay(100*time.Millisecond, 300*time.Millisecond)
		}

		if err := chromedp.Run(ctx, chromedp.SendKeys(sel, string(r), chromedp.ByQuery)); err != nil {
			return h.setValue(ctx, sel, text, err)
		}
		time.Sleep(h.typeDelay())

		if h.rng.Float64() < 0.05 {
			h.Delay(300*time.Millisecond, time.Second)
		}
	}
	return nil
}

func (h *Humanizer) setValue(ctx context.Context, sel, text string, cause error) error {
	log.Printf("warning: human-like typing failed (%v), falling back to direct set", cause)
	return chromedp.Run(ctx,
		chromedp.SetValue(sel, "", chromedp.ByQuery),
		chromedp.SetValue(sel, text, chromedp.ByQuery),
	)
}

type elementBox struct {
	Found bool    `json:"found"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	W     float64 `json:"w"`
	H     float64 `json:"h"`
}

// ClickWithJitter clicks the element matched by sel at a randomized offset
// within its bounding box, with a 30% chance of a short pause first. Falls
// back to a plain click when the box cannot be resolved.
func (h *Humanizer) ClickWithJitter(ctx context.Context, sel string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return {found: false};
		const r = el.getBoundingClientRect();
		return {found: true, x: r.x, y: r.y, w: r.width, h: r.height};
	})()`, sel)

	var box elementBox
	err := chromedp.Run(ctx, chromedp.Evaluate(js, &box))
	if err != nil || !box.Found || box.W <= 0 || box.H <= 0 {
		return chromedp.Run(ctx, chromedp.Click(sel, chromedp.ByQuery))
	}

	// Aim inside the middle half of the box, never at the exact center.
	x := box.X + box.W*(0.25+h.rng.Float64()*0.5)
	y := box.Y + box.H*(0.25+h.rng.Float64()*0.5)

	if h.rng.Float64() < 0.30 {
		h.Delay(100*time.Millisecond, 500*time.Millisecond)
	}
	if err := chromedp.Run(ctx, chromedp.MouseClickXY(x, y)); err != nil {
		log.Printf("warning: jittered click failed (%v), falling back to direct click", err)
		return chromedp.Run(ctx, chromedp.Click(sel, chromedp.ByQuery))
	}
	return nil
}

// ScrollGradually scrolls the window by delta pixels in 5-15 jittered
// sub-increments with short pauses, simulating non-linear scroll velocity.
func (h *Humanizer) ScrollGradually(ctx context.Context, delta float64) {
	var pos float64
	_ = chromedp.Run(ctx, chromedp.Evaluate(`window.pageYOffset`, &pos))
	target := pos + delta

	steps := h.scrollSteps()
	inc := delta / float64(steps)
	for i := 0; i < steps; i++ {
		next := pos + inc + (h.rng.Float64()*20 - 10)
		if i == steps-1 {
			next = target
		}
		if err := chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf("window.scrollTo(0, %.0f)", next), nil)); err != nil {
			return
		}
		pos = next
		h.Delay(50*time.Millisecond, 200*time.Millisecond)
	}
}
