package measurement

import (
	"slices"
	"strings"
	"sync"
)

// Config of the measurement service
type Config struct {
	Active bool `yaml:"active"`
}

// Service collects timing points by name, e.g. "fetchImage:srtm"
type Service struct {
	active bool
	plock  sync.Mutex
	points map[string]*Point
}

type Data struct {
	Name      string `json:"name"`
	Min       int64  `json:"min"`
	Max       int64  `json:"max"`
	Average   int64  `json:"average"`
	Total     int64  `json:"total"`
	Count     int    `json:"count"`
	Errors    int    `json:"errors"`
	MaxActive int    `json:"maxActive"`
}

func New(active bool) *Service {
	return &Service{
		active: active,
		points: make(map[string]*Point),
	}
}

// Start creates a running monitor on the named point
func (s *Service) Start(name string) Monitor {
	m := s.Point(name).Monitor()
	m.Start()
	return m
}

func (s *Service) Point(name string) *Point {
	s.plock.Lock()
	defer s.plock.Unlock()
	p, ok := s.points[name]
	if !ok {
		p = NewPoint(name, s.active)
		s.points[name] = p
	}
	return p
}

// Datas returns a snapshot of all points sorted by name
func (s *Service) Datas() []Data {
	s.plock.Lock()
	datas := make([]Data, 0, len(s.points))
	for _, v := range s.points {
		datas = append(datas, v.Data())
	}
	s.plock.Unlock()
	slices.SortFunc(datas, func(d1, d2 Data) int {
		return strings.Compare(d1.Name, d2.Name)
	})
	return datas
}

func (s *Service) Reset() {
	s.plock.Lock()
	defer s.plock.Unlock()
	for _, v := range s.points {
		v.Reset()
	}
}
