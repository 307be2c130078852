package jsonl

import (
	"context"
	"encoding/json"
	"io"

	"github.com/DRSN-tech/ingest-pipeline/internal/domain"
	"github.com/DRSN-tech/ingest-pipeline/internal/usecase"
	"github.com/DRSN-tech/ingest-pipeline/pkg/e"
)

// Sink пишет датапоинты в формате JSON Lines: один объект на строку.
type Sink struct {
	w       io.Writer
	written int
}

func NewSink(w io.Writer) *Sink {
	return &Sink{
		w: w,
	}
}

func (s *Sink) WriteDatapoint(_ context.Context, dp *domain.Datapoint) error {
	const op = "jsonl.Sink.WriteDatapoint"

	line, err := json.Marshal(dp)
	if err != nil {
		return e.Wrap(op, err)
	}

	line = append(line, '\n')
	if _, err := s.w.Write(line); err != nil {
		return e.Wrap(op, err)
	}

	s.written++

	return nil
}

// Written возвращает количество успешно записанных датапоинтов.
func (s *Sink) Written() int {
	return s.written
}

// MultiSink дублирует каждый датапоинт во все вложенные выгрузки.
// Ошибка любой из них прерывает запись.
type MultiSink struct {
	sinks []usecase.DatapointSink
}

func NewMultiSink(sinks ...usecase.DatapointSink) *MultiSink {
	return &MultiSink{
		sinks: sinks,
	}
}

func (m *MultiSink) WriteDatapoint(ctx context.Context, dp *domain.Datapoint) error {
	for _, sink := range m.sinks {
		if err := sink.WriteDatapoint(ctx, dp); err != nil {
			return err
		}
	}

	return nil
}

// Written возвращает минимум по вложенным выгрузкам: только датапоинты,
// дошедшие до каждой из них, считаются записанными.
func (m *MultiSink) Written() int {
	if len(m.sinks) == 0 {
		return 0
	}

	written := m.sinks[0].Written()
	for _, sink := range m.sinks[1:] {
		if n := sink.Written(); n < written {
			written = n
		}
	}

	return written
}
