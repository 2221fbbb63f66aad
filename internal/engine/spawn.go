package engine

import (
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"
	"github.com/san-kum/gravwell/internal/particle"
	"github.com/san-kum/gravwell/internal/vecmath"
)

// flowScale converts positions into noise space.
const flowScale = 0.005

// Spawner picks the initial state of a new particle.
type Spawner interface {
	Spawn(b vecmath.Bounds, cfg particle.Config) (pos, vel vecmath.Vec3)
}

type uniformSpawner struct {
	rng *rand.Rand
}

// Spawn places the particle uniformly and gives it a random velocity in
// [-1, 1) per axis.
func (s uniformSpawner) Spawn(b vecmath.Bounds, cfg particle.Config) (vecmath.Vec3, vecmath.Vec3) {
	pos := particle.RandomPosition(s.rng, b, cfg.Use3D)
	vel := vecmath.Vec3{
		X: vecmath.Random(s.rng, -1, 1),
		Y: vecmath.Random(s.rng, -1, 1),
	}
	if cfg.Use3D {
		vel.Z = vecmath.Random(s.rng, -1, 1)
	}
	return pos, vel
}

type flowSpawner struct {
	rng   *rand.Rand
	noise *perlin.Perlin
}

func newFlowSpawner(rng *rand.Rand) flowSpawner {
	return flowSpawner{rng: rng, noise: perlin.NewPerlin(2, 2, 3, rng.Int63())}
}

// Spawn places the particle uniformly and aims its unit velocity along
// the noise field at that point.
func (s flowSpawner) Spawn(b vecmath.Bounds, cfg particle.Config) (vecmath.Vec3, vecmath.Vec3) {
	pos := particle.RandomPosition(s.rng, b, cfg.Use3D)
	angle := (s.noise.Noise2D(pos.X*flowScale, pos.Y*flowScale) + 1) * math.Pi
	vel := vecmath.Vec3{X: math.Cos(angle), Y: math.Sin(angle)}
	if cfg.Use3D {
		vel.Z = s.noise.Noise2D(pos.Y*flowScale, pos.X*flowScale)
	}
	return pos, vel
}

func newSpawner(mode SpawnMode, rng *rand.Rand) Spawner {
	if mode == SpawnFlow {
		return newFlowSpawner(rng)
	}
	return uniformSpawner{rng: rng}
}
