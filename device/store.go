package device

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// fileRecord is the on-disk TOML layout. Binary fields are hex strings.
type fileRecord struct {
	Display     string `toml:"display"`
	Product     string `toml:"product"`
	Device      string `toml:"device"`
	Board       string `toml:"board"`
	Brand       string `toml:"brand"`
	Model       string `toml:"model"`
	Bootloader  string `toml:"bootloader"`
	FingerPrint string `toml:"finger_print"`
	BootID      string `toml:"boot_id"`
	ProcVersion string `toml:"proc_version"`
	BaseBand    string `toml:"base_band"`
	SimInfo     string `toml:"sim_info"`
	OSType      string `toml:"os_type"`
	MacAddress  string `toml:"mac_address"`
	IPAddress   string `toml:"ip_address"`
	WifiBSSID   string `toml:"wifi_bssid"`
	WifiSSID    string `toml:"wifi_ssid"`
	IMEI        string `toml:"imei"`
	AndroidID   string `toml:"android_id"`
	APN         string `toml:"apn"`
	VendorName  string `toml:"vendor_name"`
	VendorOS    string `toml:"vendor_os_name"`
	IMSIMD5     string `toml:"imsi_md5"`
	GUID        string `toml:"guid"`
	TGTGTKey    string `toml:"tgtgt_key"`
}

// Store loads and saves an Identity. Implementations live outside the login
// flow; the decoders only ever see the loaded *Identity.
type Store interface {
	Load() (*Identity, error)
	Save(id *Identity) error
}

// FileStore persists an Identity as a TOML file.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the identity. A missing file returns an error wrapping os.ErrNotExist.
func (s *FileStore) Load() (*Identity, error) {
	var rec fileRecord
	if _, err := toml.DecodeFile(s.path, &rec); err != nil {
		return nil, fmt.Errorf("load device identity (%s): %w", s.path, err)
	}
	id, err := rec.identity()
	if err != nil {
		return nil, fmt.Errorf("parse device identity (%s): %w", s.path, err)
	}
	if len(id.GUID) == 0 {
		id.GUID = id.ComputeGUID()
	}
	if err := id.Validate(); err != nil {
		return nil, fmt.Errorf("invalid device identity (%s): %w", s.path, err)
	}
	return id, nil
}

// Save writes the identity, replacing the file atomically.
func (s *FileStore) Save(id *Identity) error {
	if id == nil {
		return errors.New("cannot save nil device identity")
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(recordOf(id)); err != nil {
		return fmt.Errorf("encode device identity: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create device directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write device identity: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace device identity: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "FileStore.Save",
		"path":     s.path,
	}).Debug("Device identity saved")
	return nil
}

// LoadOrCreate loads the identity from store, or creates and saves a random
// one when none exists yet.
func LoadOrCreate(store Store) (*Identity, error) {
	id, err := store.Load()
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"function": "LoadOrCreate",
	}).Info("No device identity found, generating a new one")

	id, err = Random()
	if err != nil {
		return nil, err
	}
	if err := store.Save(id); err != nil {
		return nil, err
	}
	return id, nil
}

func recordOf(id *Identity) fileRecord {
	return fileRecord{
		Display:     id.Display,
		Product:     id.Product,
		Device:      id.Device,
		Board:       id.Board,
		Brand:       id.Brand,
		Model:       id.Model,
		Bootloader:  id.Bootloader,
		FingerPrint: id.FingerPrint,
		BootID:      id.BootID,
		ProcVersion: id.ProcVersion,
		BaseBand:    id.BaseBand,
		SimInfo:     id.SimInfo,
		OSType:      id.OSType,
		MacAddress:  id.MacAddress,
		IPAddress:   hex.EncodeToString(id.IPAddress),
		WifiBSSID:   id.WifiBSSID,
		WifiSSID:    id.WifiSSID,
		IMEI:        id.IMEI,
		AndroidID:   id.AndroidID,
		APN:         id.APN,
		VendorName:  id.VendorName,
		VendorOS:    id.VendorOS,
		IMSIMD5:     hex.EncodeToString(id.IMSIMD5),
		GUID:        hex.EncodeToString(id.GUID),
		TGTGTKey:    hex.EncodeToString(id.TGTGTKey),
	}
}

func (rec fileRecord) identity() (*Identity, error) {
	id := &Identity{
		Display:     rec.Display,
		Product:     rec.Product,
		Device:      rec.Device,
		Board:       rec.Board,
		Brand:       rec.Brand,
		Model:       rec.Model,
		Bootloader:  rec.Bootloader,
		FingerPrint: rec.FingerPrint,
		BootID:      rec.BootID,
		ProcVersion: rec.ProcVersion,
		BaseBand:    rec.BaseBand,
		SimInfo:     rec.SimInfo,
		OSType:      rec.OSType,
		MacAddress:  rec.MacAddress,
		WifiBSSID:   rec.WifiBSSID,
		WifiSSID:    rec.WifiSSID,
		IMEI:        rec.IMEI,
		AndroidID:   rec.AndroidID,
		APN:         rec.APN,
		VendorName:  rec.VendorName,
		VendorOS:    rec.VendorOS,
	}
	var err error
	if id.IPAddress, err = hex.DecodeString(rec.IPAddress); err != nil {
		return nil, fmt.Errorf("ip_address: %w", err)
	}
	if id.IMSIMD5, err = hex.DecodeString(rec.IMSIMD5); err != nil {
		return nil, fmt.Errorf("imsi_md5: %w", err)
	}
	if id.GUID, err = hex.DecodeString(rec.GUID); err != nil {
		return nil, fmt.Errorf("guid: %w", err)
	}
	if id.TGTGTKey, err = hex.DecodeString(rec.TGTGTKey); err != nil {
		return nil, fmt.Errorf("tgtgt_key: %w", err)
	}
	return id, nil
}
