package node

import (
	"github.com/cuemby/nodefabric/pkg/nodeconfig"
	"github.com/cuemby/nodefabric/pkg/staticstorage"
)

const detailsArtifactName = "node"

func detailsBuilder(cfg nodeconfig.Config, id Id) *staticstorage.Builder {
	return staticstorage.NewBuilder(cfg.NodeDetailsDir(id.String()), detailsArtifactName, false)
}

// openNodeStorage opens the "node" artifact read-only. A nil, nil
// return means the artifact does not exist.
func openNodeStorage(cfg nodeconfig.Config, id Id) (*staticstorage.Artifact, error) {
	artifact, err := detailsBuilder(cfg, id).Open()
	if err != nil {
		var openErr *staticstorage.OpenError
		if asOpenError(err, &openErr) {
			switch openErr.Kind {
			case staticstorage.OpenCorrupted:
				return nil, &ReadStorageFailure{Kind: ReadStorageCorrupted, Err: openErr}
			case staticstorage.OpenRead:
				return nil, &ReadStorageFailure{Kind: ReadStorageRead, Err: openErr}
			default:
				return nil, &ReadStorageFailure{Kind: ReadStorageInternalError, Err: openErr}
			}
		}
		return nil, &ReadStorageFailure{Kind: ReadStorageInternalError, Err: err}
	}
	return artifact, nil
}

func asOpenError(err error, target **staticstorage.OpenError) bool {
	oe, ok := err.(*staticstorage.OpenError)
	if !ok {
		return false
	}
	*target = oe
	return true
}

// getNodeDetails opens the details artifact for id and, if present,
// reads and deserializes it. A nil, nil return means the artifact does
// not exist (a benign race).
func getNodeDetails(cfg nodeconfig.Config, id Id) (*Details, error) {
	artifact, err := openNodeStorage(cfg, id)
	if err != nil {
		return nil, err
	}
	if artifact == nil {
		return nil, nil
	}

	data, err := artifact.Read()
	if err != nil {
		return nil, &ReadStorageFailure{Kind: ReadStorageRead, Err: err}
	}

	var details Details
	if err := nodeconfig.DefaultSerializer.Deserialize(data, &details); err != nil {
		return nil, &ReadStorageFailure{Kind: ReadStorageCorrupted, Err: err}
	}
	return &details, nil
}

// createNodeDetailsStorage serializes details and creates the "node"
// artifact for id, mirroring the exact error-mapping table from the
// reference design's detail-storage creation step.
func createNodeDetailsStorage(cfg nodeconfig.Config, id Id, details Details) error {
	data, err := nodeconfig.DefaultSerializer.Serialize(details)
	if err != nil {
		return &CreationFailure{Kind: CreationInternalError, Err: err}
	}

	if err := detailsBuilder(cfg, id).Create(data); err != nil {
		var createErr *staticstorage.CreateError
		if ce, ok := err.(*staticstorage.CreateError); ok {
			createErr = ce
			switch createErr.Kind {
			case staticstorage.CreateAlreadyExists:
				return fatalCreate(createErr)
			case staticstorage.CreateInsufficientPermissions:
				return &CreationFailure{Kind: CreationInsufficientPermissions, Err: createErr}
			default:
				return &CreationFailure{Kind: CreationInternalError, Err: createErr}
			}
		}
		return &CreationFailure{Kind: CreationInternalError, Err: err}
	}
	return nil
}

// listNodeDetailStorages gathers every sibling detail-storage artifact
// for a node as the first phase of its removal.
func listNodeDetailStorages(dir string) ([]string, error) {
	names, err := staticstorage.ListCfg(dir)
	if err != nil {
		if le, ok := err.(*staticstorage.ListError); ok && le.Kind == staticstorage.ListInsufficientPermissions {
			return nil, &CleanupFailure{Kind: CleanupInsufficientPermissions, Err: le}
		}
		return nil, &CleanupFailure{Kind: CleanupInternalError, Err: err}
	}
	return names, nil
}

// removeDetailStorage removes a single sibling artifact as the second
// phase of node removal. A backend InternalError here is kept distinct
// from InsufficientPermissions rather than folded into it, so a disk
// error is never misreported as a permissions problem.
func removeDetailStorage(dir, name string) error {
	if err := staticstorage.RemoveCfg(dir, name); err != nil {
		if re, ok := err.(*staticstorage.RemoveError); ok && re.Kind == staticstorage.RemoveInsufficientPermissions {
			return &CleanupFailure{Kind: CleanupInsufficientPermissions, Err: re}
		}
		return &CleanupFailure{Kind: CleanupInternalError, Err: err}
	}
	return nil
}
