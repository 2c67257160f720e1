// Package device holds the per-installation identity the login flow reads on
// every decode: the stable GUID the server binds sessions to and the 16-byte
// root secret (TGTGT key) used to open the account-info blob.
//
// Example:
//
//	store := device.NewFileStore("device.toml")
//	id, err := device.LoadOrCreate(store)
//	if err != nil {
//	    log.Fatal(err)
//	}
package device

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opd-ai/oicq/crypto"
	"github.com/sirupsen/logrus"
)

// RootSecretSize is the length of the TGTGT root secret.
const RootSecretSize = 16

// ErrRootSecretSize indicates a root secret that is not 16 bytes.
var ErrRootSecretSize = errors.New("root secret must be 16 bytes")

// Identity describes one client installation.
type Identity struct {
	Display     string
	Product     string
	Device      string
	Board       string
	Brand       string
	Model       string
	Bootloader  string
	FingerPrint string
	BootID      string
	ProcVersion string
	BaseBand    string
	SimInfo     string
	OSType      string
	MacAddress  string
	IPAddress   []byte
	WifiBSSID   string
	WifiSSID    string
	IMEI        string
	AndroidID   string
	APN         string
	VendorName  string
	VendorOS    string
	IMSIMD5     []byte

	// GUID is MD5(AndroidID || MacAddress).
	GUID []byte
	// TGTGTKey is the root secret. It starts random and is replaced once by
	// a successful QR confirmation.
	TGTGTKey []byte
}

// Random creates an identity with fresh random identifiers.
func Random() (*Identity, error) {
	bootID := uuid.New()
	androidID := strings.ReplaceAll(uuid.New().String(), "-", "")[:16]

	imei, err := randomIMEI()
	if err != nil {
		return nil, err
	}
	mac, err := crypto.RandomBytes(6)
	if err != nil {
		return nil, err
	}
	imsi, err := crypto.RandomBytes(16)
	if err != nil {
		return nil, err
	}
	key, err := crypto.RandomBytes(RootSecretSize)
	if err != nil {
		return nil, err
	}
	suffix, err := crypto.RandomString(6)
	if err != nil {
		return nil, err
	}

	id := &Identity{
		Display:     "OICQ." + suffix + ".001",
		Product:     "oicq",
		Device:      "oicq",
		Board:       "oicq",
		Brand:       "opd-ai",
		Model:       "oicq",
		Bootloader:  "unknown",
		FingerPrint: "opd-ai/oicq/oicq:10/OICQ." + suffix + "/001:user/release-keys",
		BootID:      bootID.String(),
		ProcVersion: "Linux version 4.19.71-" + suffix + " (android-build@oicq)",
		BaseBand:    "",
		SimInfo:     "T-Mobile",
		OSType:      "android",
		MacAddress:  fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", mac[0], mac[1], mac[2], mac[3], mac[4], mac[5]),
		IPAddress:   []byte{10, 0, 1, 3},
		WifiBSSID:   "02:00:00:00:00:00",
		WifiSSID:    "<unknown ssid>",
		IMEI:        imei,
		AndroidID:   androidID,
		APN:         "wifi",
		VendorName:  "OICQ",
		VendorOS:    "oicq",
		IMSIMD5:     imsi,
		TGTGTKey:    key,
	}
	id.GUID = id.ComputeGUID()

	logrus.WithFields(logrus.Fields{
		"function": "Random",
		"boot_id":  id.BootID,
	}).Debug("Generated random device identity")

	return id, nil
}

// ComputeGUID derives the GUID from the android id and MAC address.
func (id *Identity) ComputeGUID() []byte {
	return crypto.MD5([]byte(id.AndroidID), []byte(id.MacAddress))
}

// SetRootSecret replaces the root secret with a copy of key.
func (id *Identity) SetRootSecret(key []byte) error {
	if len(key) != RootSecretSize {
		return fmt.Errorf("%w: got %d", ErrRootSecretSize, len(key))
	}
	old := id.TGTGTKey
	id.TGTGTKey = append([]byte(nil), key...)
	crypto.ZeroBytes(old)
	return nil
}

// Validate checks the fields the login decoders depend on.
func (id *Identity) Validate() error {
	if len(id.GUID) != 16 {
		return fmt.Errorf("device guid must be 16 bytes, got %d", len(id.GUID))
	}
	if len(id.TGTGTKey) != RootSecretSize {
		return fmt.Errorf("%w: got %d", ErrRootSecretSize, len(id.TGTGTKey))
	}
	return nil
}

// randomIMEI builds a 15-digit IMEI with a valid Luhn check digit.
func randomIMEI() (string, error) {
	raw, err := crypto.RandomBytes(14)
	if err != nil {
		return "", err
	}
	digits := make([]byte, 15)
	sum := 0
	for i := 0; i < 14; i++ {
		d := int(raw[i] % 10)
		digits[i] = byte('0' + d)
		if i%2 == 1 {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
	}
	digits[14] = byte('0' + (10-sum%10)%10)
	return string(digits), nil
}
