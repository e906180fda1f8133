package stg

import (
	"github.com/vovakirdan/tui-stg/internal/config"
	"github.com/vovakirdan/tui-stg/internal/core"
)

// Kind selects an object's behaviour.
type Kind int

const (
	KindPlayer Kind = iota
	KindEnemy
	KindEnemyBullet
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "Player"
	case KindEnemy:
		return "Enemy"
	case KindEnemyBullet:
		return "EnemyBullet"
	default:
		return "Unknown"
	}
}

// Type is the collision faction of an object.
type Type int

const (
	TypePlayer Type = iota
	TypeEnemy
)

// String returns the faction name.
func (t Type) String() string {
	if t == TypePlayer {
		return "PLAYER"
	}
	return "ENEMY"
}

// Object is one live game entity. Kind, Type and Texture never change after
// construction; everything else is owned by the kind's behaviour.
type Object struct {
	kind    Kind
	typ     Type
	texture core.TextureID

	x, y      float64
	speed     float64 // bullets only
	counter   int     // enemy: ticks since last shot; bullet: remaining lifetime
	removable bool

	hitRect  core.Rect
	drawRect core.Rect
	color    core.Color
	mirrorX  bool
	mirrorY  bool
}

// Kind returns the variant.
func (o *Object) Kind() Kind { return o.kind }

// Type returns the collision faction.
func (o *Object) Type() Type { return o.typ }

// Texture returns the sprite the object is drawn with.
func (o *Object) Texture() core.TextureID { return o.texture }

// Pos returns the centre of the object in world units.
func (o *Object) Pos() (x, y float64) { return o.x, o.y }

// Removable reports whether the next purge drops the object.
func (o *Object) Removable() bool { return o.removable }

// HitRect returns the world-space rectangle used for collision tests.
func (o *Object) HitRect() core.Rect { return o.hitRect }

// DrawRect returns the world-space rectangle the sprite is drawn into.
func (o *Object) DrawRect() core.Rect { return o.drawRect }

// Color returns the tint applied to the sprite.
func (o *Object) Color() core.Color { return o.color }

// Mirror returns the texture flip flags.
func (o *Object) Mirror() (x, y bool) { return o.mirrorX, o.mirrorY }

// Counter returns the enemy fire counter or the bullet's remaining lifetime.
func (o *Object) Counter() int { return o.counter }

// Quad returns the draw call for the object.
func (o *Object) Quad() core.Quad {
	return core.Quad{
		Rect:    o.drawRect,
		Color:   o.color,
		Texture: o.texture,
		MirrorX: o.mirrorX,
		MirrorY: o.mirrorY,
	}
}

// behavior is the per-kind dispatch table entry.
type behavior struct {
	update     func(o *Object, ctx *FrameContext)
	hit        func(o *Object, other *Object)
	updateRect func(o *Object, cfg *config.GameConfig)
}

// behaviors is filled in init; the update functions dispatch through it.
var behaviors [3]behavior

func init() {
	behaviors = [...]behavior{
		KindPlayer: {
			update:     updatePlayer,
			hit:        hitPlayer,
			updateRect: playerRect,
		},
		KindEnemy: {
			update:     updateEnemy,
			hit:        func(*Object, *Object) {},
			updateRect: enemyRect,
		},
		KindEnemyBullet: {
			update:     updateBullet,
			hit:        func(*Object, *Object) {},
			updateRect: bulletRect,
		},
	}
}

func (o *Object) update(ctx *FrameContext)          { behaviors[o.kind].update(o, ctx) }
func (o *Object) hit(other *Object)                 { behaviors[o.kind].hit(o, other) }
func (o *Object) updateRect(cfg *config.GameConfig) { behaviors[o.kind].updateRect(o, cfg) }

// NewPlayer creates the player at its configured start position.
func NewPlayer(cfg *config.GameConfig) Object {
	o := Object{
		kind:    KindPlayer,
		typ:     TypePlayer,
		texture: core.TextureXchu,
		x:       cfg.Player.StartX,
		y:       cfg.Player.StartY,
		color:   core.White(),
	}
	o.updateRect(cfg)
	return o
}

// NewEnemy creates an enemy at (x, y).
func NewEnemy(x, y float64, cfg *config.GameConfig) Object {
	o := Object{
		kind:    KindEnemy,
		typ:     TypeEnemy,
		texture: core.TextureXchu,
		x:       x,
		y:       y,
		color:   cfg.Enemy.Tint.Color(),
	}
	o.updateRect(cfg)
	return o
}

// NewEnemyBullet creates a bullet at (x, y) travelling left at speed.
func NewEnemyBullet(x, y, speed float64, cfg *config.GameConfig) Object {
	o := Object{
		kind:    KindEnemyBullet,
		typ:     TypeEnemy,
		texture: core.TextureBullet,
		x:       x,
		y:       y,
		speed:   speed,
		counter: cfg.Bullet.Lifetime,
		color:   core.White(),
	}
	o.updateRect(cfg)
	return o
}

func updatePlayer(o *Object, ctx *FrameContext) {
	speed := ctx.cfg.Player.Speed
	in := ctx.Input
	if in.Left {
		o.x -= speed
	}
	if in.Right {
		o.x += speed
	}
	if in.Up {
		o.y += speed
	}
	if in.Down {
		o.y -= speed
	}
	o.updateRect(ctx.cfg)
}

func hitPlayer(o *Object, other *Object) {
	if other.typ == TypeEnemy {
		o.removable = true
	}
}

func playerRect(o *Object, cfg *config.GameConfig) {
	o.hitRect = core.NewRectCentered(o.x, o.y, 2*cfg.Player.HalfW, 2*cfg.Player.HalfH)
	o.drawRect = o.hitRect
}

func updateEnemy(o *Object, ctx *FrameContext) {
	if p, ok := ctx.Player(); ok {
		speed := ctx.cfg.Enemy.Speed
		o.y += core.ClampF(p.y-o.y, -speed, speed)
		o.updateRect(ctx.cfg)
	}

	o.counter++
	if o.counter >= ctx.fireInterval {
		o.counter = 0
		ctx.Spawn(NewEnemyBullet(o.x, o.y, ctx.bulletSpeed, ctx.cfg))
	}
}

func enemyRect(o *Object, cfg *config.GameConfig) {
	side := 2 * cfg.Enemy.HalfSize
	o.hitRect = core.NewRectCentered(o.x, o.y, side, side)
	o.drawRect = o.hitRect
}

func updateBullet(o *Object, ctx *FrameContext) {
	o.x -= o.speed
	o.updateRect(ctx.cfg)

	o.counter--
	if o.counter <= 0 {
		o.removable = true
	}
}

func bulletRect(o *Object, cfg *config.GameConfig) {
	o.hitRect = core.NewRectCentered(o.x, o.y, 2*cfg.Bullet.HalfW, 2*cfg.Bullet.HalfH)
	o.drawRect = o.hitRect
}
