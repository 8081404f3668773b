package session

const (
	messageInfoEndpoint = "[info] Endpoint:  %s\n"
	messageInfoLanguage = "[info] Language:  %s\n"
	messageInfoRate     = "[info] Rate:      %d Hz\n"
	messageInfoMic      = "[info] Mic idx:   %d\n"
	messageInfoModel    = "[info] Model:     %s\n"
	messageInfoDevice   = "[info] Device:    %s\n"

	messageRecording   = "🎙️ Recording… press ENTER to stop."
	messageInterrupted = "\n[info] Interrupted. Stopping."
	messageCaptured    = "[info] Captured ~%.2fs. Transcribing…\n"
	messageLongRunning = "[info] Audio ~%.1fs. Using long_running_recognize…\n"
	messageDone        = "[done] ✨"

	messageMicOpenFailed      = "[error] Mic open failed: %v\n"
	messageMicOpenHintDevice  = "       - Pick a specific device with --input-device-index (see --list-devices)"
	messageMicOpenHintPrivacy = "       - On Windows, check mic privacy settings"
	messageNoAudio            = "[error] No audio captured."
	messageRecordingFailed    = "[error] Recording failed: %v\n"
	messageTranscribeFailed   = "[error] Transcription failed: %v\n"
	messageRetrievalFailed    = "[error] Transcript retrieval failed: %v\n"

	messageTranscriptHeader = "\n===== TRANSCRIPT ====="
	messageTranscriptFooter = "======================\n"
	messageNoText           = "[warn] No text recognized."

	messageEmptySkipPost = "[warn] Empty transcript; skipping POST."
	messagePostOK        = "[ok] POSTed transcript to %s (status %d)\n"
	messagePostFailed    = "[error] POST failed: %v\n"

	messageDevicesHeader     = "=== Input devices (index -> name) ==="
	messageDeviceLine        = "%3d -> %s  (ch=%d, rate≈%d Hz)\n"
	messageListDevicesFailed = "[warn] Could not list devices: %v\n"

	languageAutoDetect = "auto"
)
