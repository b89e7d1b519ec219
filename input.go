package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/duel/ecs/system"
)

const stickDeadzone = 0.2

// Input is one frame of keyboard and gamepad state mapped to combat intents.
type Input struct {
	MoveX    float64
	Crouch   bool
	Jump     bool
	Attack   bool
	Dash     bool
	Ultimate bool

	Pause   bool
	Restart bool
}

func (i *Input) Update() {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	moveX := 0.0
	if left {
		moveX -= 1
	}
	if right {
		moveX += 1
	}

	crouch := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	jump := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyW)
	attack := inpututil.IsKeyJustPressed(ebiten.KeyJ) || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	dash := inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyK)
	ultimate := inpututil.IsKeyJustPressed(ebiten.KeyL)
	pause := inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	restart := inpututil.IsKeyJustPressed(ebiten.KeyEnter)

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
		leftY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		crouch = crouch || leftY > 0.5 || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)

		jump = jump || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		attack = attack || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		dash = dash || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		ultimate = ultimate || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop)
		pause = pause || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
		restart = restart || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterLeft)
	}

	*i = Input{
		MoveX:    moveX,
		Crouch:   crouch,
		Jump:     jump,
		Attack:   attack,
		Dash:     dash,
		Ultimate: ultimate,
		Pause:    pause,
		Restart:  restart,
	}
}

// Apply forwards the frame's intents to the player's actor. Facing follows
// movement.
func (i *Input) Apply(a system.Actor) {
	a.Move(i.MoveX)
	a.Face(i.MoveX)
	a.Crouch(i.Crouch)
	if i.Jump {
		a.Jump()
	}
	if i.Attack {
		a.Attack()
	}
	if i.Dash {
		a.Dash()
	}
	if i.Ultimate {
		a.Ultimate()
	}
}
