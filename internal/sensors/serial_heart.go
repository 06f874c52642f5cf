package sensors

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	serial "github.com/jacobsa/go-serial/serial"

	"github.com/relabs-tech/gesture_grid/internal/sample"
)

// serialHeartSource reads a chest-strap receiver that prints one
// `BPM=<value>` line per beat over a serial port.
type serialHeartSource struct {
	port   io.ReadWriteCloser
	reader *bufio.Reader
}

// NewSerialHeartSource opens the receiver's serial port.
func NewSerialHeartSource(portName string, baudRate uint) (HeartSource, error) {
	serialOpts := serial.OpenOptions{
		PortName:        portName,
		BaudRate:        baudRate,
		DataBits:        8,
		StopBits:        1,
		MinimumReadSize: 1,
		ParityMode:      serial.PARITY_NONE,
	}

	port, err := serial.Open(serialOpts)
	if err != nil {
		return nil, fmt.Errorf("heart: serial open %s: %w", portName, err)
	}
	log.Printf("heart: serial port opened on %s at %d baud", portName, baudRate)

	return &serialHeartSource{
		port:   port,
		reader: bufio.NewReader(port),
	}, nil
}

// Next blocks until the receiver emits a plausible beat line. Noise and
// partial lines are skipped silently; the stream is best-effort.
func (s *serialHeartSource) Next() (sample.Heart, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return sample.Heart{}, fmt.Errorf("heart: serial read: %w", err)
		}
		bpm, ok := parseBPMLine(line)
		if !ok {
			continue
		}
		return sample.Heart{At: time.Now(), BPM: bpm}, nil
	}
}

func (s *serialHeartSource) Close() error {
	return s.port.Close()
}

// parseBPMLine extracts the rate from a `BPM=<value>` line. Values outside
// the 10–250 bpm physiological window are treated as noise.
func parseBPMLine(line string) (float64, bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "BPM=") {
		return 0, false
	}
	bpm, err := strconv.ParseFloat(strings.TrimPrefix(line, "BPM="), 64)
	if err != nil {
		return 0, false
	}
	if bpm < 10 || bpm > 250 {
		return 0, false
	}
	return bpm, true
}
