package stg

import (
	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
)

// World owns every live object in spawn order and runs the per-frame
// update, purge, collide, purge sequence.
type World struct {
	cfg          config.GameConfig
	objects      []Object
	player       int // index of the live player, -1 if none
	fireInterval int
	bulletSpeed  float64
	frame        FrameContext
}

// FrameContext is handed to each object's update. It exposes the input of
// the current frame, the player lookup and spawning.
type FrameContext struct {
	Input core.InputState

	world        *World
	cfg          *config.GameConfig
	fireInterval int
	bulletSpeed  float64
	spawned      []Object
}

// Player returns the live player, if any.
func (c *FrameContext) Player() (*Object, bool) {
	return c.world.Player()
}

// Spawn queues o. It joins the world at the end of the update pass, after
// every object that existed when the frame began, and is first updated on the
// next frame.
func (c *FrameContext) Spawn(o Object) {
	c.spawned = append(c.spawned, o)
}

// NewWorld creates an empty world.
func NewWorld(cfg config.GameConfig) *World {
	w := &World{
		cfg:          cfg,
		player:       -1,
		fireInterval: cfg.Enemy.FireInterval,
		bulletSpeed:  cfg.Bullet.Speed,
	}
	w.frame.world = w
	w.frame.cfg = &w.cfg
	return w
}

// Config returns the constants the world runs with.
func (w *World) Config() config.GameConfig {
	return w.cfg
}

// SetFireInterval changes the enemy fire interval for following frames.
func (w *World) SetFireInterval(ticks int) {
	if ticks < 1 {
		ticks = 1
	}
	w.fireInterval = ticks
}

// SetBulletSpeed changes the speed of bullets spawned in following frames.
func (w *World) SetBulletSpeed(speed float64) {
	w.bulletSpeed = speed
}

// Add appends o. Adding a player makes it the live player.
func (w *World) Add(o Object) {
	w.objects = append(w.objects, o)
	if o.kind == KindPlayer {
		w.player = len(w.objects) - 1
	}
}

// Reset removes every object.
func (w *World) Reset() {
	clear(w.objects)
	w.objects = w.objects[:0]
	w.player = -1
}

// Player returns the live player, if any. The pointer is valid until the
// world is next modified.
func (w *World) Player() (*Object, bool) {
	if w.player < 0 {
		return nil, false
	}
	return &w.objects[w.player], true
}

// Len returns the number of live objects.
func (w *World) Len() int {
	return len(w.objects)
}

// At returns the i-th object in spawn order.
func (w *World) At(i int) *Object {
	return &w.objects[i]
}

// Each calls fn for every object in spawn order until fn returns false.
func (w *World) Each(fn func(o *Object) bool) {
	for i := range w.objects {
		if !fn(&w.objects[i]) {
			return
		}
	}
}

// Objects returns a copy of the live objects in spawn order.
func (w *World) Objects() []Object {
	out := make([]Object, len(w.objects))
	copy(out, w.objects)
	return out
}

// Step runs one frame: update, purge, collide, purge.
func (w *World) Step(in core.InputState) {
	w.Update(in)
	w.Purge()
	w.Collide()
	w.Purge()
}

// Update advances every object present at the start of the frame, then
// appends whatever they spawned.
func (w *World) Update(in core.InputState) {
	ctx := &w.frame
	ctx.Input = in
	ctx.fireInterval = w.fireInterval
	ctx.bulletSpeed = w.bulletSpeed
	ctx.spawned = ctx.spawned[:0]

	n := len(w.objects)
	for i := 0; i < n; i++ {
		w.objects[i].update(ctx)
	}

	for _, o := range ctx.spawned {
		w.Add(o)
	}
	clear(ctx.spawned)
	ctx.spawned = ctx.spawned[:0]
}

// Purge drops removable objects, keeping the order of the rest. A purged
// player is forgotten.
func (w *World) Purge() {
	kept := 0
	player := -1
	for i := range w.objects {
		if w.objects[i].removable {
			continue
		}
		if i == w.player {
			player = kept
		}
		if kept != i {
			w.objects[kept] = w.objects[i]
		}
		kept++
	}
	clear(w.objects[kept:])
	w.objects = w.objects[:kept]
	w.player = player
}

// Collide tests every unordered pair once and, when their hit boxes
// intersect, lets each side react to the other.
func (w *World) Collide() {
	for i := 0; i < len(w.objects); i++ {
		a := &w.objects[i]
		for j := i + 1; j < len(w.objects); j++ {
			b := &w.objects[j]
			if a.hitRect.Intersects(b.hitRect) {
				a.hit(b)
				b.hit(a)
			}
		}
	}
}
