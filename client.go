package oicq

import (
	"errors"
	"fmt"
	"sync"

	"github.com/opd-ai/oicq/config"
	"github.com/opd-ai/oicq/device"
	"github.com/opd-ai/oicq/interfaces"
	"github.com/opd-ai/oicq/limits"
	"github.com/opd-ai/oicq/msg"
	"github.com/opd-ai/oicq/msg/pb"
	"github.com/opd-ai/oicq/profile"
	"github.com/opd-ai/oicq/wtlogin"
	"github.com/sirupsen/logrus"
)

// ErrClientClosed is returned by every decode and encode after Close.
var ErrClientClosed = errors.New("oicq: client closed")

// Options configures a Client.
type Options struct {
	Config config.Config
	// Store loads and saves the device identity. Nil means a FileStore at
	// Config.DevicePath.
	Store device.Store
	// Builder builds the device-lock follow-up packet.
	Builder interfaces.IPacketBuilder
	// TimeProvider overrides the clock used for key expiry.
	TimeProvider wtlogin.TimeProvider
}

// NewOptions returns options with default settings.
func NewOptions() *Options {
	return &Options{Config: config.Default()}
}

// Client owns one login session and serializes every decode against it.
type Client struct {
	mu       sync.Mutex
	session  *wtlogin.Session
	store    device.Store
	builder  interfaces.IPacketBuilder
	maxFrame int
	closed   bool

	deviceChanged func(*device.Identity)
}

// New loads or creates the device identity and returns a client with an
// empty session.
func New(options *Options) (*Client, error) {
	if options == nil {
		options = NewOptions()
	}
	store := options.Store
	if store == nil {
		store = device.NewFileStore(options.Config.DevicePath)
	}
	dev, err := device.LoadOrCreate(store)
	if err != nil {
		return nil, fmt.Errorf("device identity: %w", err)
	}

	session := wtlogin.NewSession(dev)
	if options.TimeProvider != nil {
		session.Clock = options.TimeProvider
	}
	maxFrame := options.Config.MaxFrame
	if maxFrame <= 0 || maxFrame > limits.MaxFrame {
		maxFrame = limits.MaxFrame
	}

	logrus.WithFields(logrus.Fields{
		"function":  "New",
		"max_frame": maxFrame,
	}).Debug("Client created")

	return &Client{
		session:  session,
		store:    store,
		builder:  options.Builder,
		maxFrame: maxFrame,
	}, nil
}

func (c *Client) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *Client) checkFrame(payload []byte) error {
	if c.closed {
		return ErrClientClosed
	}
	return limits.ValidateFrameSize(payload, c.maxFrame)
}

// DecodeLogin decodes a login response frame.
func (c *Client) DecodeLogin(payload []byte) (wtlogin.LoginResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkFrame(payload); err != nil {
		return nil, err
	}
	return wtlogin.DecodeLoginResponse(c.session, c.builder, payload)
}

// DecodeQRCode decodes a QR login frame. A confirmation changes the device
// root secret, which is saved to the store before returning.
func (c *Client) DecodeQRCode(payload []byte) (wtlogin.QRCodeState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkFrame(payload); err != nil {
		return nil, err
	}
	state, err := wtlogin.DecodeQRCodeResponse(c.session, payload)
	if err != nil {
		return nil, err
	}
	if _, ok := state.(wtlogin.QRConfirmed); ok {
		if err := c.store.Save(c.session.Device); err != nil {
			return state, fmt.Errorf("save device after QR login: %w", err)
		}
		if c.deviceChanged != nil {
			c.deviceChanged(c.session.Device)
		}
	}
	return state, nil
}

// DecodeExchange decodes a credential exchange frame.
func (c *Client) DecodeExchange(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.checkFrame(payload); err != nil {
		return err
	}
	return wtlogin.DecodeExchangeResponse(c.session, payload)
}

// DecodeSystemMessages decodes a group system message list. It touches no
// session state.
func (c *Client) DecodeSystemMessages(payload []byte) (*profile.GroupSystemMessages, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	if len(payload) > c.maxFrame {
		return nil, fmt.Errorf("%w: %w", profile.ErrDecode, limits.ErrFrameTooLarge)
	}
	return profile.DecodeSystemMsgGroup(payload)
}

// DecodeMessage decodes a rich-text message body into elements.
func (c *Client) DecodeMessage(payload []byte) ([]msg.Element, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	if len(payload) > c.maxFrame {
		return nil, limits.ErrFrameTooLarge
	}
	var body pb.RichText
	if err := body.Unmarshal(payload); err != nil {
		return nil, fmt.Errorf("decode message body: %w", err)
	}
	return msg.FromWireElems(body.Elems), nil
}

// EncodeMessage encodes elements into a rich-text message body.
func (c *Client) EncodeMessage(elems []msg.Element) ([]byte, error) {
	if c.isClosed() {
		return nil, ErrClientClosed
	}
	wire, err := msg.ToWireElems(elems)
	if err != nil {
		return nil, err
	}
	return (&pb.RichText{Elems: wire}).Marshal()
}

// OnDeviceChanged registers a callback run after a QR confirmation saved a
// new root secret.
func (c *Client) OnDeviceChanged(fn func(*device.Identity)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deviceChanged = fn
}

// Account returns the logged-in account profile.
func (c *Client) Account() wtlogin.AccountInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Account
}

// Online reports whether a login produced session keys.
func (c *Client) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session.Established()
}

// WithSession runs fn with exclusive access to the session.
func (c *Client) WithSession(fn func(s *wtlogin.Session) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClientClosed
	}
	return fn(c.session)
}

// Logout wipes the session credentials. The device identity is kept.
func (c *Client) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session.Reset()
	logrus.WithFields(logrus.Fields{
		"function": "Logout",
	}).Info("Session credentials wiped")
}

// Close wipes the session and rejects further decodes.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.session.Reset()
	c.closed = true
	return nil
}
