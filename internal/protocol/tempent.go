package protocol

// TempEntityType names a temp_entity effect (duplicated from the game
// source, same values, same ordering -- renumbering breaks network
// compatibility with TE_BOSSTPORT hardcoded to 22 in at least one map).
type TempEntityType uint8

const (
	TeGunshot TempEntityType = iota
	TeBlood
	TeBlaster
	TeRailtrail
	TeShotgun
	TeExplosion1
	TeExplosion2
	TeRocketExplosion
	TeGrenadeExplosion
	TeSparks
	TeSplash
	TeBubbletrail
	TeScreenSparks
	TeShieldSparks
	TeBulletSparks
	TeLaserSparks
	TeParasiteAttack
	TeRocketExplosionWater
	TeGrenadeExplosionWater
	TeMedicCableAttack
	TeBfgExplosion
	TeBfgBigexplosion
	TeBosstport // hardcoded as 22 on at least one map -- never renumber
	TeBfgLaser
	TeGrappleCable
	TeWeldingSparks
	TeGreenblood
	TeBluehyperblaster
	TePlasmaExplosion
	TeTunnelSparks

	// Rogue mission pack.
	TeBlaster2
	TeRailtrail2
	TeFlame
	TeLightning
	TeDebugtrail
	TePlainExplosion
	TeFlashlight
	TeForcewall
	TeHeatbeam
	TeMonsterHeatbeam
	TeSteam
	TeBubbletrail2
	TeMoreblood
	TeHeatbeamSparks
	TeHeatbeamSteam
	TeChainfistSmoke
	TeElectricSparks
	TeTrackerExplosion
	TeTeleportEffect
	TeDballGoal
	TeWidowbeamout
	TeNukeblast
	TeWidowsplash
	TeExplosion1Big
	TeExplosion1Np
	TeFlechette

	// Rerelease additions.
	TeBluehyperblaster2
	TeBfgZap
	TeBerserkSlam
	TeGrappleCable2
	TePowerSplash
	TeLightningBeam
	TeExplosion1Nl
	TeExplosion2Nl

	NumTempEntityTypes
)
