//go:build !ci

package sound

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/palemoky/sette-e-mezzo/internal/logger"
)

// SoundManager 预加载音效并通过扬声器播放
type SoundManager struct {
	dir     string
	buffers map[Cue]*beep.Buffer
	enabled bool
}

// NewSoundManager 创建音效管理器，dir 为音效目录
func NewSoundManager(dir string) *SoundManager {
	if dir == "" {
		dir = "assets/sounds"
	}
	return &SoundManager{
		dir:     dir,
		buffers: make(map[Cue]*beep.Buffer),
		enabled: false,
	}
}

// Init 初始化扬声器并加载音效文件
func (sm *SoundManager) Init() error {
	sampleRate := beep.SampleRate(44100)
	// 较小的缓冲区，降低延迟
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	sm.enabled = true

	// Load sounds from assets directory
	if err := sm.loadSoundFiles(sampleRate); err != nil {
		return err
	}

	return nil
}

// loadSoundFiles 加载目录下的 mp3 和 wav 文件
func (sm *SoundManager) loadSoundFiles(sampleRate beep.SampleRate) error {
	soundDir := sm.dir
	files, err := os.ReadDir(soundDir)
	if err != nil {
		// 没有音效目录时静音
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read sound directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name := file.Name()
		ext := strings.ToLower(filepath.Ext(name))
		baseName := strings.TrimSuffix(name, filepath.Ext(name))

		if ext != ".mp3" && ext != ".wav" {
			continue
		}

		if err := sm.loadSoundFile(soundDir, name, baseName, ext, sampleRate); err != nil {
			logger.LogError("load sound %s: %v", name, err)
			continue
		}
	}

	return nil
}

// loadSoundFile 解码一个文件到缓冲区
func (sm *SoundManager) loadSoundFile(soundDir, name, baseName, ext string, sampleRate beep.SampleRate) error {
	path := filepath.Join(soundDir, name)
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var streamer beep.StreamSeekCloser
	var format beep.Format

	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	}

	if err != nil {
		return err
	}
	defer func() { _ = streamer.Close() }()

	var resampled beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		resampled = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	standardFormat := beep.Format{
		SampleRate:  sampleRate,
		NumChannels: 2,
		Precision:   4,
	}

	buffer := beep.NewBuffer(standardFormat)
	buffer.Append(resampled)

	sm.buffers[Cue(baseName)] = buffer
	return nil
}

// Play 播放音效，未加载的音效直接忽略
func (sm *SoundManager) Play(cue Cue) {
	if !sm.enabled {
		return
	}

	buffer, ok := sm.buffers[cue]
	if !ok {
		return
	}

	speaker.Play(buffer.Streamer(0, buffer.Len()))
}

// Close 停止播放
func (sm *SoundManager) Close() {
	sm.enabled = false
}
