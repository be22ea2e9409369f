package protocol

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/junsooki/pixoo64/internal/anim"
)

// Command discriminators understood by the device.
const (
	CommandSendGif       = "Draw/SendHttpGif"
	CommandSendText      = "Draw/SendHttpText"
	CommandSetBrightness = "Channel/SetBrightness"
	CommandReboot        = "Device/SysReboot"
	CommandPlayBuzzer    = "Device/PlayBuzzer"
	CommandSetTimer      = "Tools/SetTimer"
	CommandSetScoreBoard = "Tools/SetScoreBoard"
)

// Request is any JSON body posted to the device.
type Request interface {
	CommandName() string
}

// Envelope is the part shared by every request, used to dispatch on Command.
type Envelope struct {
	Command string `json:"Command"`
}

func (e Envelope) CommandName() string { return e.Command }

// SendGif carries one animation frame.
type SendGif struct {
	Command   string `json:"Command"`
	PicNum    int    `json:"PicNum"`
	PicWidth  int    `json:"PicWidth"`
	PicOffset int    `json:"PicOffset"`
	PicID     int    `json:"PicID"`
	PicSpeed  int    `json:"PicSpeed"`
	PicData   string `json:"PicData"`
}

func (m SendGif) CommandName() string { return m.Command }

// NewSendGif builds a frame message with the payload base64-encoded.
func NewSendGif(id, num, width, offset, speed int, frame anim.Frame) SendGif {
	return SendGif{
		Command:   CommandSendGif,
		PicNum:    num,
		PicWidth:  width,
		PicOffset: offset,
		PicID:     id,
		PicSpeed:  speed,
		PicData:   EncodeFrame(frame),
	}
}

// Frame decodes PicData.
func (m SendGif) Frame() (anim.Frame, error) {
	return DecodeFrame(m.PicData)
}

// EncodeFrame renders a frame in the ASCII-safe form used by PicData.
func EncodeFrame(f anim.Frame) string {
	return base64.StdEncoding.EncodeToString(f)
}

// DecodeFrame reverses EncodeFrame.
func DecodeFrame(s string) (anim.Frame, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode PicData: %w", err)
	}
	return anim.Frame(b), nil
}

// SetBrightness sets the panel brightness, 0-100.
type SetBrightness struct {
	Command    string `json:"Command"`
	Brightness int    `json:"Brightness"`
}

func (m SetBrightness) CommandName() string { return m.Command }

func NewSetBrightness(brightness int) SetBrightness {
	return SetBrightness{Command: CommandSetBrightness, Brightness: clamp(brightness, 0, 100)}
}

// Reboot restarts the device.
type Reboot struct {
	Command string `json:"Command"`
}

func (m Reboot) CommandName() string { return m.Command }

func NewReboot() Reboot {
	return Reboot{Command: CommandReboot}
}

// SendText scrolls a line of text over the current picture.
type SendText struct {
	Command    string `json:"Command"`
	TextID     int    `json:"TextId"`
	Align      int    `json:"align"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Dir        int    `json:"dir"`
	Font       int    `json:"font"`
	TextWidth  int    `json:"TextWidth"`
	Speed      int    `json:"speed"`
	TextString string `json:"TextString"`
	Color      string `json:"color"`
}

func (m SendText) CommandName() string { return m.Command }

// NewSendText uses the placement the device firmware documents as its default.
func NewSendText(text, color string) SendText {
	return SendText{
		Command:    CommandSendText,
		TextID:     1,
		Align:      1,
		X:          0,
		Y:          40,
		Dir:        0,
		Font:       1,
		TextWidth:  40,
		Speed:      10,
		TextString: text,
		Color:      color,
	}
}

// SetScoreBoard shows the scoreboard tool.
type SetScoreBoard struct {
	Command   string `json:"Command"`
	BlueScore int    `json:"BlueScore"`
	RedScore  int    `json:"RedScore"`
}

func (m SetScoreBoard) CommandName() string { return m.Command }

func NewSetScoreBoard(blue, red int) SetScoreBoard {
	return SetScoreBoard{Command: CommandSetScoreBoard, BlueScore: blue, RedScore: red}
}

// PlayBuzzer sounds the buzzer in on/off cycles. Times are milliseconds.
type PlayBuzzer struct {
	Command           string `json:"Command"`
	ActiveTimeInCycle int    `json:"ActiveTimeInCycle"`
	OffTimeInCycle    int    `json:"OffTimeInCycle"`
	PlayTotalTime     int    `json:"PlayTotalTime"`
}

func (m PlayBuzzer) CommandName() string { return m.Command }

func NewPlayBuzzer(active, off, total int) PlayBuzzer {
	return PlayBuzzer{
		Command:           CommandPlayBuzzer,
		ActiveTimeInCycle: active,
		OffTimeInCycle:    off,
		PlayTotalTime:     total,
	}
}

// Timer status values.
const (
	TimerStop  = 0
	TimerStart = 1
)

// SetTimer starts or stops the countdown tool.
type SetTimer struct {
	Command string `json:"Command"`
	Minute  int    `json:"Minute"`
	Second  int    `json:"Second"`
	Status  int    `json:"Status"`
}

func (m SetTimer) CommandName() string { return m.Command }

func NewSetTimer(minutes, seconds, status int) SetTimer {
	return SetTimer{Command: CommandSetTimer, Minute: minutes, Second: seconds, Status: status}
}

// Response is the device's reply to every request.
type Response struct {
	ErrorCode int `json:"error_code"`
}

// OK reports whether the device accepted the request.
func (r Response) OK() bool {
	return r.ErrorCode == 0
}

// Decode reads the Command discriminator and unmarshals the matching request.
func Decode(data []byte) (Request, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}

	var req Request
	var err error
	switch env.Command {
	case CommandSendGif:
		var m SendGif
		err = json.Unmarshal(data, &m)
		req = m
	case CommandSetBrightness:
		var m SetBrightness
		err = json.Unmarshal(data, &m)
		req = m
	case CommandSendText:
		var m SendText
		err = json.Unmarshal(data, &m)
		req = m
	case CommandSetScoreBoard:
		var m SetScoreBoard
		err = json.Unmarshal(data, &m)
		req = m
	case CommandPlayBuzzer:
		var m PlayBuzzer
		err = json.Unmarshal(data, &m)
		req = m
	case CommandSetTimer:
		var m SetTimer
		err = json.Unmarshal(data, &m)
		req = m
	case CommandReboot:
		req = Reboot{Command: CommandReboot}
	case "":
		return nil, fmt.Errorf("missing Command")
	default:
		// Unknown commands are passed through for the receiver to ignore.
		req = env
	}
	if err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", env.Command, err)
	}
	return req, nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
