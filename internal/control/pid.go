package control

import "github.com/san-kum/gravwell/internal/vecmath"

type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Limit    float64 // bound on the integral term; 0 means unbounded
	integral float64
	prevErr  float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// Update returns the control output for measured after dt seconds.
func (p *PID) Update(measured, dt float64) float64 {
	err := p.Target - measured

	if p.first || dt <= 0 {
		p.prevErr = err
		p.first = false
		return p.Kp * err
	}

	p.integral += err * dt
	if p.Limit > 0 {
		p.integral = vecmath.Clamp(p.integral, -p.Limit, p.Limit)
	}
	derivative := (err - p.prevErr) / dt
	p.prevErr = err

	return p.Kp*err + p.Ki*p.integral + p.Kd*derivative
}

func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}
