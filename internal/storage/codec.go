package storage

import (
	"encoding/json"
	"errors"

	"bbnn/internal/model"
)

const (
	CurrentSchemaVersion = model.SchemaVersion
	CurrentCodecVersion  = model.CodecVersion
)

var ErrVersionMismatch = errors.New("record version mismatch")

func EncodeNetwork(s model.NetworkSnapshot) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeNetwork(data []byte) (model.NetworkSnapshot, error) {
	var snapshot model.NetworkSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return model.NetworkSnapshot{}, err
	}
	if err := checkVersion(snapshot.VersionedRecord); err != nil {
		return model.NetworkSnapshot{}, err
	}
	return snapshot, nil
}

func EncodeInferences(records []model.InferenceRecord) ([]byte, error) {
	return json.Marshal(records)
}

func DecodeInferences(data []byte) ([]model.InferenceRecord, error) {
	var records []model.InferenceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := checkVersion(record.VersionedRecord); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
