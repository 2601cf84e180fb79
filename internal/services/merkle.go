// Package services - MerkleService provides Merkle tree operations
// for tamper-evident complaint activity history.
package services

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/aawaaz/hostel-server/internal/models"
	"go.uber.org/zap"
)

// Proof step positions
const (
	PositionLeft  = "left"
	PositionRight = "right"
)

// MerkleService manages the Merkle tree over activity log hashes
type MerkleService struct {
	mu            sync.RWMutex
	leaves        []string
	layers        [][]string
	root          string
	lastBuildTime time.Time
	logger        *zap.SugaredLogger
}

// NewMerkleService creates a new Merkle service
func NewMerkleService(logger *zap.SugaredLogger) *MerkleService {
	return &MerkleService{
		leaves: make([]string, 0),
		layers: make([][]string, 0),
		logger: logger,
	}
}

// BuildFromHashes rebuilds the tree from a list of entry hashes
func (m *MerkleService) BuildFromHashes(hashes []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.leaves = append([]string(nil), hashes...)
	m.buildTree()
	m.lastBuildTime = time.Now()

	m.logger.Debugw("Merkle tree rebuilt",
		"leaves", len(m.leaves),
		"root", m.root,
	)
}

// GetRoot returns the current Merkle root
func (m *MerkleService) GetRoot() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.root
}

// GetLeafCount returns the number of leaves
func (m *MerkleService) GetLeafCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.leaves)
}

// GetLastBuildTime returns when the tree was last rebuilt
func (m *MerkleService) GetLastBuildTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastBuildTime
}

// GetProof generates a Merkle proof for the given leaf index
func (m *MerkleService) GetProof(index int) (*models.MerkleProof, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if index < 0 || index >= len(m.leaves) {
		return nil, fmt.Errorf("index %d out of range (0-%d)", index, len(m.leaves)-1)
	}

	proof := &models.MerkleProof{
		LeafHash: m.leaves[index],
		Root:     m.root,
		Index:    index,
		Proof:    make([]models.ProofStep, 0),
	}

	currentIndex := index
	for i := 0; i < len(m.layers)-1; i++ {
		layer := m.layers[i]
		isRight := currentIndex%2 == 1
		siblingIndex := currentIndex + 1
		if isRight {
			siblingIndex = currentIndex - 1
		}

		// An unpaired last node was hashed with itself.
		sibling := layer[currentIndex]
		if siblingIndex < len(layer) {
			sibling = layer[siblingIndex]
		}

		position := PositionRight
		if isRight {
			position = PositionLeft
		}
		proof.Proof = append(proof.Proof, models.ProofStep{
			Hash:     sibling,
			Position: position,
		})

		currentIndex /= 2
	}

	proof.Verified = VerifyProof(proof)
	return proof, nil
}

// Verify checks a proof against the current root
func (m *MerkleService) Verify(proof *models.MerkleProof) bool {
	return proof != nil && proof.Root == m.GetRoot() && VerifyProof(proof)
}

// VerifyProof recomputes the root from the leaf and its path and compares
// it with the root carried by the proof
func VerifyProof(proof *models.MerkleProof) bool {
	if proof == nil || proof.LeafHash == "" || proof.Root == "" {
		return false
	}

	current := proof.LeafHash
	for _, step := range proof.Proof {
		switch step.Position {
		case PositionLeft:
			current = hashPair(step.Hash, current)
		case PositionRight:
			current = hashPair(current, step.Hash)
		default:
			return false
		}
	}
	return current == proof.Root
}

// buildTree constructs the Merkle tree from leaves (internal, must hold write lock)
func (m *MerkleService) buildTree() {
	if len(m.leaves) == 0 {
		m.root = ""
		m.layers = nil
		return
	}

	currentLayer := make([]string, len(m.leaves))
	copy(currentLayer, m.leaves)
	m.layers = [][]string{currentLayer}

	for len(currentLayer) > 1 {
		nextLayer := make([]string, 0, (len(currentLayer)+1)/2)
		for i := 0; i < len(currentLayer); i += 2 {
			left := currentLayer[i]
			right := left
			if i+1 < len(currentLayer) {
				right = currentLayer[i+1]
			}
			nextLayer = append(nextLayer, hashPair(left, right))
		}
		m.layers = append(m.layers, nextLayer)
		currentLayer = nextLayer
	}

	m.root = currentLayer[0]
}

// hashPair combines and hashes two nodes
func hashPair(left, right string) string {
	h := sha256.New()
	h.Write([]byte(left + right))
	return hex.EncodeToString(h.Sum(nil))
}
