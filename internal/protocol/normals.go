package protocol

// NumVertexNormals is the size of the precomputed unit-vector table
// temp-entity and muzzleflash direction indices are validated against
// (spec §4.5 / SUPPLEMENT).
const NumVertexNormals = 162
