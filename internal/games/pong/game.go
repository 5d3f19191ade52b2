// Package pong implements a classic Pong game with CPU opponent.
// Every connected controller steers the left paddle, the CPU controls the
// right paddle.
package pong

import (
	"fmt"
	"math"

	"github.com/vovakirdan/gameshell/internal/core"
	"github.com/vovakirdan/gameshell/internal/input"
	"github.com/vovakirdan/gameshell/internal/registry"
)

// Visual characters for rendering
const (
	PaddleChar = '█'
	BallChar   = '●'
	NetChar    = '│'
)

// Default game settings. Speeds are in cells per reference frame.
const (
	DefaultPaddleWidth    = 1
	DefaultPaddleOffset   = 2 // Distance from edge
	DefaultBallSpeed      = 0.5
	DefaultPaddleSpeed    = 1.0
	DefaultWinScore       = 5
	DefaultCPUReactionMin = 0.6  // CPU reaction time (0-1, 1 = perfect)
	DefaultCPUReactionMax = 0.85 // Max CPU skill

	referenceHz = 60  // Simulation speeds are tuned for this rate
	maxSteps    = 4.0 // Longest tick simulated, in reference frames
	serveFrames = 60  // Pause before a serve
	stickDead   = 0.25

	blipMicros   = 60_000
	rumbleMicros = 250_000
)

// Game is the Pong core. It holds no state of its own; everything lives in
// the arena passed to Tick.
type Game struct{}

// New creates a new Pong core.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "pong"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Pong"
}

// Reset initializes the game in mem.
func (g *Game) Reset(cfg core.RuntimeConfig, mem []byte) {
	if cfg.ScreenW <= 0 || cfg.ScreenH <= 0 {
		def := core.DefaultConfig()
		cfg.ScreenW, cfg.ScreenH = def.ScreenW, def.ScreenH
	}
	s := state{
		Width:        int32(cfg.ScreenW),
		Height:       int32(cfg.ScreenH),
		PaddleHeight: int32(min(max(cfg.ScreenH/5, 3), 7)),
		CPUSkill:     DefaultCPUReactionMin,
		RNG:          uint64(cfg.Seed) | 1,
	}
	s.restart()
	s.store(mem)
}

// restart resets scores and paddles and starts a serve.
func (s *state) restart() {
	centerY := float64(s.Height)/2.0 - float64(s.PaddleHeight)/2.0
	s.Paddle1Y = centerY
	s.Paddle2Y = centerY
	s.Score1, s.Score2 = 0, 0
	s.GameOver = false
	s.Paused = false
	s.Winner = 0
	s.CPUSkill = DefaultCPUReactionMin
	s.startServe(1)
}

// startServe prepares to serve the ball.
func (s *state) startServe(server int) {
	s.Serving = true
	s.ServeDelay = serveFrames

	s.BallX = float64(s.Width) / 2.0
	s.BallY = float64(s.Height) / 2.0

	// Ball velocity towards the player who was scored against
	speed := DefaultBallSpeed
	if server == 1 {
		s.BallVX = -speed
	} else {
		s.BallVX = speed
	}

	angle := (s.rand() - 0.5) * 0.6 // -0.3 to 0.3
	s.BallVY = speed * angle
}

// controls merges the input of every connected controller.
// move is negative for up.
func (s *state) controls(in *input.Snapshot) (move float64, pause, restart bool) {
	for i := range in.Controllers {
		c := &in.Controllers[i]
		if !c.IsConnected {
			continue
		}

		y := float64(c.StickLeft.End.Y + c.DPad.End.Y)
		if math.Abs(y) > stickDead {
			move -= y
		}

		if c.ButtonStart.WentDown(s.PauseSeen[i]) {
			pause = true
		}
		if c.ButtonA.WentDown(s.RestartSeen[i]) {
			restart = true
		}
		s.PauseSeen[i] = c.ButtonStart.TransitionCount
		s.RestartSeen[i] = c.ButtonA.TransitionCount
	}
	return core.ClampF(move, -1, 1), pause, restart
}

// Tick advances the game by one step.
func (g *Game) Tick(in *input.Snapshot, mem []byte) core.Output {
	s := load(mem)
	defer s.store(mem)

	out := core.Output{ShouldQuit: in.CloseRequested}
	s.TickCount++
	now := in.UpTimeMicroseconds
	s.Now = now

	move, pause, restart := s.controls(in)

	if s.GameOver {
		if restart {
			s.restart()
		}
		return out
	}

	if pause {
		s.Paused = !s.Paused
	}
	if s.Paused {
		return out
	}

	dt := core.ClampF(in.ElapsedSeconds*referenceHz, 0, maxSteps)

	if s.Serving {
		s.ServeDelay -= dt
		if s.ServeDelay <= 0 {
			s.Serving = false
		}
	}

	s.Paddle1Y += move * DefaultPaddleSpeed * dt
	maxY := float64(s.Height - s.PaddleHeight - 1)
	s.Paddle1Y = core.ClampF(s.Paddle1Y, 1, maxY)

	s.updateCPU(dt)

	if !s.Serving {
		switch s.updateBall(dt) {
		case hitPaddle:
			s.BlipUntil, s.BlipPitch = now+blipMicros, 440
		case hitWall:
			s.BlipUntil, s.BlipPitch = now+blipMicros, 220
		case conceded:
			s.BlipUntil, s.BlipPitch = now+4*blipMicros, 110
			s.RumbleUntil = now + rumbleMicros
		case scored:
			s.BlipUntil, s.BlipPitch = now+2*blipMicros, 880
		}
	}

	// Gradually increase CPU skill
	if s.TickCount%600 == 0 && s.CPUSkill < DefaultCPUReactionMax {
		s.CPUSkill += 0.02
	}

	if now < s.RumbleUntil {
		for i := range in.Controllers {
			if in.Controllers[i].IsConnected {
				out.Rumble[i] = core.Rumble{Low: 0.6, High: 0.2}
			}
		}
	}
	return out
}

// updateCPU handles CPU paddle movement.
func (s *state) updateCPU(dt float64) {
	targetY := s.BallY - float64(s.PaddleHeight)/2.0
	diff := targetY - s.Paddle2Y

	// Only move if ball is coming towards CPU
	if s.BallVX > 0 {
		moveSpeed := DefaultPaddleSpeed * s.CPUSkill * dt
		if math.Abs(diff) > moveSpeed {
			if diff > 0 {
				s.Paddle2Y += moveSpeed
			} else {
				s.Paddle2Y -= moveSpeed
			}
		}
	}

	maxY := float64(s.Height - s.PaddleHeight - 1)
	s.Paddle2Y = core.ClampF(s.Paddle2Y, 1, maxY)
}

// ballEvent is what happened to the ball during one step.
type ballEvent int

const (
	ballMoved ballEvent = iota
	hitWall
	hitPaddle
	scored   // Player 1 scored
	conceded // CPU scored
)

// updateBall handles ball physics and collision.
func (s *state) updateBall(dt float64) ballEvent {
	ev := ballMoved

	s.BallX += s.BallVX * dt
	s.BallY += s.BallVY * dt

	// Bounce off top/bottom walls
	if s.BallY <= 1 {
		s.BallY = 1
		s.BallVY = -s.BallVY
		ev = hitWall
	}
	if s.BallY >= float64(s.Height-2) {
		s.BallY = float64(s.Height - 2)
		s.BallVY = -s.BallVY
		ev = hitWall
	}

	paddle1X := float64(DefaultPaddleOffset)
	paddle2X := float64(s.Width - DefaultPaddleOffset - DefaultPaddleWidth)
	height := float64(s.PaddleHeight)

	// Ball hits left paddle (Player 1)
	if s.BallX <= paddle1X+DefaultPaddleWidth && s.BallVX < 0 &&
		s.BallY >= s.Paddle1Y && s.BallY <= s.Paddle1Y+height {
		s.BallX = paddle1X + DefaultPaddleWidth
		s.BallVX = -s.BallVX
		// Add spin based on where ball hit paddle
		hitPos := (s.BallY - s.Paddle1Y) / height
		s.BallVY += (hitPos - 0.5) * 0.3
		s.BallVX *= 1.02
		ev = hitPaddle
	}

	// Ball hits right paddle (CPU)
	if s.BallX >= paddle2X && s.BallVX > 0 &&
		s.BallY >= s.Paddle2Y && s.BallY <= s.Paddle2Y+height {
		s.BallX = paddle2X - 1
		s.BallVX = -s.BallVX
		hitPos := (s.BallY - s.Paddle2Y) / height
		s.BallVY += (hitPos - 0.5) * 0.3
		s.BallVX *= 1.02
		ev = hitPaddle
	}

	// Limit ball speed
	maxSpeed := DefaultBallSpeed * 3
	if math.Abs(s.BallVX) > maxSpeed {
		s.BallVX = maxSpeed * math.Copysign(1, s.BallVX)
	}
	if math.Abs(s.BallVY) > maxSpeed/2 {
		s.BallVY = maxSpeed / 2 * math.Copysign(1, s.BallVY)
	}

	if s.BallX < 0 {
		s.Score2++
		if s.Score2 >= DefaultWinScore {
			s.GameOver = true
			s.Winner = 2
		} else {
			s.startServe(2)
		}
		return conceded
	}

	if s.BallX > float64(s.Width) {
		s.Score1++
		if s.Score1 >= DefaultWinScore {
			s.GameOver = true
			s.Winner = 1
		} else {
			s.startServe(1)
		}
		return scored
	}

	return ev
}

// Draw renders the state in mem to the screen.
func (g *Game) Draw(mem []byte, dst *core.Screen) {
	s := load(mem)
	dst.Clear()

	centerX := dst.Width() / 2
	for y := 1; y < dst.Height()-1; y += 2 {
		dst.SetColor(centerX, y, NetChar, core.ColorGray)
	}

	paddle1X := DefaultPaddleOffset
	paddle2X := int(s.Width) - DefaultPaddleOffset - DefaultPaddleWidth

	for i := range int(s.PaddleHeight) {
		dst.SetColor(paddle1X, int(s.Paddle1Y)+i, PaddleChar, core.ColorBrightCyan)
		dst.SetColor(paddle2X, int(s.Paddle2Y)+i, PaddleChar, core.ColorBrightRed)
	}

	// Blink during serve
	if !s.Serving || int(s.ServeDelay/10)%2 == 0 {
		dst.SetColor(int(s.BallX), int(s.BallY), BallChar, core.ColorBrightYellow)
	}

	dst.DrawText(centerX-5, 0, fmt.Sprintf("%d", s.Score1))
	dst.DrawText(centerX+4, 0, fmt.Sprintf("%d", s.Score2))
	dst.DrawText(1, 0, "P1")
	dst.DrawText(dst.Width()-4, 0, "CPU")

	if s.Paused {
		drawCenteredMessage(dst, "PAUSED", "Press Start (Enter) to resume")
	}

	if s.GameOver {
		msg := "CPU WINS!"
		if s.Winner == 1 {
			msg = "YOU WIN!"
		}
		drawCenteredMessage(dst, msg, fmt.Sprintf("%d - %d  |  Press A (Space) to restart", s.Score1, s.Score2))
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len(title), len(subtitle)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorWhite)

	dst.DrawText(box.X+(boxW-len(title))/2, box.Y+1, title)
	dst.DrawText(box.X+(boxW-len(subtitle))/2, box.Y+3, subtitle)
}

func init() {
	registry.Register("pong", func() registry.Core {
		return New()
	})
}
