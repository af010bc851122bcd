package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/daybook-ai/daybook/internal/llm"
	"github.com/daybook-ai/daybook/internal/pipeline"
	"github.com/daybook-ai/daybook/internal/store"
)

// maxUploadBytes caps a single input upload. Voice notes are small;
// this mostly guards against someone posting raw video of any length.
const maxUploadBytes = 100 << 20

type inputResponse struct {
	SpokenResponse string `json:"spoken_response"`
	EntryID        int64  `json:"entry_id"`
	Module         string `json:"module"`
	Entries        int    `json:"entries"`
}

// handleInput accepts one multipart input: a "file" part (audio, image
// or video) or a "text" field, or both. Audio and video become a
// transcript before classification; images go to the classifier as-is.
func (s *Server) handleInput(w http.ResponseWriter, r *http.Request, user *store.User) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form data", s.logger)
		return
	}

	var (
		transcript = strings.TrimSpace(r.FormValue("text"))
		inputKind  = "text"
		image      *llm.ImageAttachment
	)

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			writeError(w, http.StatusBadRequest, "could not read uploaded file", s.logger)
			return
		}
		if len(data) == 0 {
			writeError(w, http.StatusBadRequest, "empty file", s.logger)
			return
		}

		inputKind = detectInputKind(header.Filename)
		switch inputKind {
		case "audio":
			transcript, err = s.transcribeOrFail(r.Context(), w, data, header.Filename)
			if err != nil {
				return
			}
		case "video":
			audio, extractErr := extractAudio(r.Context(), data, header.Filename)
			if extractErr != nil {
				s.logger.Error("video audio extraction failed", "error", extractErr)
				writeError(w, http.StatusBadRequest, "could not extract audio from video", s.logger)
				return
			}
			transcript, err = s.transcribeOrFail(r.Context(), w, audio, "extracted.mp3")
			if err != nil {
				return
			}
		case "image":
			image = &llm.ImageAttachment{Data: data, MediaType: imageMediaType(header.Filename)}
		}
	}

	if transcript == "" && image == nil {
		writeError(w, http.StatusBadRequest, "no input provided", s.logger)
		return
	}

	result, err := s.processor.Process(r.Context(), pipeline.Request{
		OwnerID:   user.ID,
		RawText:   transcript,
		InputKind: inputKind,
		Image:     image,
	})
	if err != nil {
		// Classification is the only request-level failure the pipeline
		// surfaces; without it nothing can be produced.
		s.logger.Error("input processing failed", "error", err)
		writeError(w, http.StatusBadGateway, "classification unavailable", s.logger)
		return
	}

	writeJSON(w, http.StatusOK, inputResponse{
		SpokenResponse: result.SpokenResponse,
		EntryID:        result.PrimaryID,
		Module:         result.PrimaryModule,
		Entries:        result.Entries,
	}, s.logger)
}

func (s *Server) transcribeOrFail(ctx context.Context, w http.ResponseWriter, audio []byte, filename string) (string, error) {
	if s.transcriber == nil {
		writeError(w, http.StatusBadRequest, "audio input is not configured", s.logger)
		return "", fmt.Errorf("no transcriber")
	}
	transcript, err := s.transcriber.Transcribe(ctx, audio, filename)
	if err != nil {
		s.logger.Error("transcription failed", "error", err)
		writeError(w, http.StatusBadGateway, "transcription failed", s.logger)
		return "", err
	}
	return transcript, nil
}

// detectInputKind maps a filename extension to an input kind. Unknown
// extensions are treated as audio, matching what phone shortcuts send
// with odd names.
func detectInputKind(filename string) string {
	if filename == "" {
		return "text"
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "m4a", "mp3", "wav", "ogg", "flac", "webm", "mpeg", "mpga":
		return "audio"
	case "jpg", "jpeg", "png", "gif", "webp", "heic", "heif":
		return "image"
	case "mp4", "mov", "avi", "mkv":
		return "video"
	}
	return "audio"
}

func imageMediaType(filename string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	switch ext {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// extractAudio pulls the audio track out of a video upload with ffmpeg.
func extractAudio(ctx context.Context, video []byte, filename string) ([]byte, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".mp4"
	}

	videoFile, err := os.CreateTemp("", "daybook-video-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("temp video file: %w", err)
	}
	videoPath := videoFile.Name()
	defer os.Remove(videoPath)

	if _, err := videoFile.Write(video); err != nil {
		videoFile.Close()
		return nil, fmt.Errorf("write video: %w", err)
	}
	videoFile.Close()

	audioPath := videoPath + ".mp3"
	defer os.Remove(audioPath)

	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-i", videoPath, "-vn", "-acodec", "libmp3lame", "-q:a", "4", audioPath, "-y")
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("ffmpeg: %w: %s", err, out)
	}

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("read extracted audio: %w", err)
	}
	return audio, nil
}
